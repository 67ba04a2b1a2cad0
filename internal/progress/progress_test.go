package progress

import (
	"testing"

	"github.com/terra-clan/robolearn/internal/models"
)

func stage(id int, subtopics ...string) models.LearningStage {
	s := models.LearningStage{ID: id, Level: models.LevelBeginner, Title: "stage"}
	for _, st := range subtopics {
		s.Subtopics = append(s.Subtopics, models.Subtopic{ID: st, Name: st})
	}
	return s
}

func TestToggleTwiceRestoresState(t *testing.T) {
	c := Completion{"b2": true}

	if !c.Toggle("b1") {
		t.Error("expected first toggle to mark b1 done")
	}
	if c.Toggle("b1") {
		t.Error("expected second toggle to clear b1")
	}
	if c.Done("b1") {
		t.Error("expected b1 to be not done")
	}
	if len(c) != 1 || !c["b2"] {
		t.Errorf("expected original state, got %v", c)
	}
}

func TestStageCompletion(t *testing.T) {
	st := stage(1, "b1", "b2", "b3")
	c := Completion{}
	tracker := Tracker{}

	for i, id := range []string{"b1", "b2", "b3"} {
		if tracker.IsStageComplete(st, c) {
			t.Fatalf("stage reported complete after %d of 3", i)
		}
		c.Toggle(id)
		if got := StageProgress(st, c); got.Completed != i+1 || got.Total != 3 {
			t.Errorf("expected %d/3, got %d/%d", i+1, got.Completed, got.Total)
		}
	}

	if !tracker.IsStageComplete(st, c) {
		t.Error("expected stage complete once every subtopic is done")
	}

	c.Toggle("b2")
	if tracker.IsStageComplete(st, c) {
		t.Error("expected stage incomplete after un-toggling b2")
	}
}

func TestCompletionIgnoresOtherStages(t *testing.T) {
	st := stage(2, "i1", "i2")
	c := Completion{"b1": true, "i1": true}

	if got := StageProgress(st, c); got.Completed != 1 {
		t.Errorf("expected 1 completed, got %d", got.Completed)
	}
}

func TestEmptyStageIsConfigurable(t *testing.T) {
	empty := stage(9)

	if (Tracker{}).IsStageComplete(empty, Completion{}) {
		t.Error("expected empty stage incomplete by default")
	}
	if !(Tracker{EmptyStageComplete: true}).IsStageComplete(empty, Completion{}) {
		t.Error("expected empty stage complete when configured")
	}
	if p := StageProgress(empty, Completion{}); p.Percent() != 0 {
		t.Errorf("expected 0%%, got %d", p.Percent())
	}
}

func TestSummarize(t *testing.T) {
	stages := []models.LearningStage{
		stage(1, "b1", "b2"),
		stage(2, "i1", "i2", "i3", "i4"),
	}
	c := Completion{"b1": true, "b2": true, "i1": true}

	s := Tracker{}.Summarize(stages, c)
	if s.Completed != 3 || s.Total != 6 {
		t.Errorf("expected 3/6, got %d/%d", s.Completed, s.Total)
	}
	if s.StagesCompleted != 1 {
		t.Errorf("expected 1 stage complete, got %d", s.StagesCompleted)
	}
	if !s.Stages[0].Complete || s.Stages[1].Complete {
		t.Errorf("unexpected completion flags: %+v", s.Stages)
	}
	if s.Stages[1].Percent != 25 {
		t.Errorf("expected 25%%, got %d", s.Stages[1].Percent)
	}
}

func TestViewExpand(t *testing.T) {
	v := NewView()
	if !v.IsExpanded(1) {
		t.Fatal("expected stage 1 expanded by default")
	}

	v.Expand(3)
	if v.IsExpanded(1) || !v.IsExpanded(3) {
		t.Error("expected only stage 3 expanded")
	}

	v.Expand(3)
	if v.Expanded != nil {
		t.Errorf("expected all collapsed, got %d", *v.Expanded)
	}
}

func TestViewCloneIsIndependent(t *testing.T) {
	v := NewView()
	v.Completion.Toggle("b1")

	cp := v.Clone()
	cp.Completion.Toggle("b2")
	cp.Expand(2)

	if v.Completion.Done("b2") {
		t.Error("clone shares completion map")
	}
	if !v.IsExpanded(1) {
		t.Error("clone shares expanded pointer")
	}
}
