package gateway

import (
	"fmt"

	"google.golang.org/genai"
)

func designPrompt(description string) string {
	return fmt.Sprintf(`You are a robotics and electronics expert who creates project plans for students.
Based on the following user request, generate a complete project plan including a list of components, wiring connections, a simple explanation, and the necessary code.
Ensure the response is structured according to the provided JSON schema.
The project should be suitable for a beginner to intermediate hobbyist.

User Request: %q
`, description)
}

func reviewPrompt(code, language string) string {
	return fmt.Sprintf("You are an expert programmer and a helpful teaching assistant for robotics students.\n"+
		"Analyze the following %s code for errors, potential bugs, and areas for improvement.\n"+
		"Provide a friendly, step-by-step explanation of any issues found and suggest the corrected code.\n"+
		"If there are no errors, compliment the user and suggest one possible improvement or best practice.\n"+
		"Format your response in clear Markdown.\n\n"+
		"Code to analyze:\n```%s\n%s\n```\n", language, language, code)
}

// DesignSchema constrains the design response to the AIGeneratedDesign shape
func DesignSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"circuit": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"components": {
						Type:        genai.TypeArray,
						Description: "List of electronic components required.",
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"name":     {Type: genai.TypeString, Description: "e.g., Arduino Uno, 5mm Red LED, 220 Ohm Resistor"},
								"quantity": {Type: genai.TypeInteger, Description: "The number of this component needed."},
							},
							Required: []string{"name", "quantity"},
						},
					},
					"connections": {
						Type:        genai.TypeArray,
						Description: "Step-by-step wiring instructions.",
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"from":   {Type: genai.TypeString, Description: "The starting component and pin, e.g., 'Arduino Uno Pin 13'"},
								"to":     {Type: genai.TypeString, Description: "The ending component and pin, e.g., 'LED Anode'"},
								"detail": {Type: genai.TypeString, Description: "Additional details, e.g., 'via 220 Ohm Resistor'"},
							},
							Required: []string{"from", "to", "detail"},
						},
					},
					"explanation": {
						Type:        genai.TypeString,
						Description: "A brief, beginner-friendly explanation of how the circuit works.",
					},
				},
				Required: []string{"components", "connections", "explanation"},
			},
			"code": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"language": {Type: genai.TypeString, Description: "The programming language, e.g., 'Arduino (C++)' or 'Python'"},
					"code":     {Type: genai.TypeString, Description: "The complete, well-commented code to run the project."},
				},
				Required: []string{"language", "code"},
			},
		},
		Required: []string{"circuit", "code"},
	}
}
