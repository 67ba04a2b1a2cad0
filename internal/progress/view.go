package progress

// DefaultExpandedStage is open when a learner first visits the path
const DefaultExpandedStage = 1

// View is the learner's progress plus transient expansion state
type View struct {
	Completion Completion `json:"completion"`
	Expanded   *int       `json:"expanded"` // nil when every stage is collapsed
}

// NewView returns a view with nothing completed and the first stage open
func NewView() View {
	expanded := DefaultExpandedStage
	return View{
		Completion: Completion{},
		Expanded:   &expanded,
	}
}

// Expand opens stage id and closes any other. Expanding the open stage
// collapses it.
func (v *View) Expand(id int) {
	if v.Expanded != nil && *v.Expanded == id {
		v.Expanded = nil
		return
	}
	v.Expanded = &id
}

// IsExpanded reports whether stage id is open
func (v View) IsExpanded(id int) bool {
	return v.Expanded != nil && *v.Expanded == id
}

// Clone returns a copy sharing no memory with v
func (v View) Clone() View {
	out := View{Completion: v.Completion.Clone()}
	if v.Expanded != nil {
		id := *v.Expanded
		out.Expanded = &id
	}
	return out
}
