package quiz

// State is the coarse quiz state
type State string

const (
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Question is a question as shown to the visitor, without its answer
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
}

// Feedback is revealed after an answer is submitted
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
}

// View is the read-only rendering of a session
type View struct {
	State    State     `json:"state"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Score    int       `json:"score"`
	MaxScore int       `json:"maxScore"`
	Question *Question `json:"question,omitempty"`
	Selected string    `json:"selected,omitempty"`
	Feedback *Feedback `json:"feedback,omitempty"`
}

// View renders s. A finished session exposes only the final score.
func (e *Engine) View(s Session) View {
	v := View{
		Index:    s.Index,
		Total:    len(e.questions),
		Score:    s.Score,
		MaxScore: e.MaxScore(),
	}

	if e.Finished(s) {
		v.State = StateFinished
		v.Index = len(e.questions)
		return v
	}

	q := e.questions[s.Index]
	v.State = StateInProgress
	v.Question = &Question{
		ID:       q.ID,
		Question: q.Question,
		Options:  append([]string(nil), q.Options...),
		Points:   q.Points,
	}
	v.Selected = s.Selected
	if s.FeedbackShown {
		v.Feedback = &Feedback{
			Correct:       s.LastCorrect,
			CorrectAnswer: q.CorrectAnswer,
		}
	}
	return v
}
