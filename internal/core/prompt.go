package core

import "fmt"

// BuildBasePrompt turns intent, language, and task into the base instruction
// sent to the model. Language must already be the result of InferLanguage,
// never the raw declared value. Unrecognized intents get a generic coding
// assistant prompt that intentionally omits the language.
func BuildBasePrompt(intent, language, task string) string {
	switch intent {
	case "generate_code":
		return fmt.Sprintf("Generate a code snippet in %s for the following task: %s", language, task)
	case "explain_code":
		return fmt.Sprintf("Explain the following %s code: %s", language, task)
	default:
		return fmt.Sprintf("You are a helpful coding assistant. Respond to the following request: %s", task)
	}
}
