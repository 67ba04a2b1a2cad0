package models

// QuizQuestion is a multiple-choice question. CorrectAnswer is one of Options.
type QuizQuestion struct {
	ID            int      `json:"id" yaml:"id"`
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer"`
	Points        int      `json:"points" yaml:"points"`
}

// HasOption reports whether option is one of the question's options
func (q QuizQuestion) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
