package models

// CircuitComponent is a part required by a generated design
type CircuitComponent struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CircuitConnection is one wiring step
type CircuitConnection struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Detail string `json:"detail"`
}

// GeneratedCircuit describes the hardware side of a design
type GeneratedCircuit struct {
	Components  []CircuitComponent  `json:"components" validate:"required,dive"`
	Connections []CircuitConnection `json:"connections" validate:"required,dive"`
	Explanation string              `json:"explanation" validate:"required"`
}

// GeneratedCode is the program that drives the circuit
type GeneratedCode struct {
	Language string `json:"language" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

// AIGeneratedDesign is the result of one design generation request. It is not persisted.
type AIGeneratedDesign struct {
	Circuit GeneratedCircuit `json:"circuit"`
	Code    GeneratedCode    `json:"code"`
}

// CodeReview is the Markdown feedback for a submitted program
type CodeReview struct {
	Language string `json:"language"`
	Feedback string `json:"feedback"` // raw Markdown, unsanitized
}
