// internal/agent/models.go
package agent

import "browseragent/internal/trace"

// TaskResult is the complete outcome of one command: the final answer, the
// full execution trace, and optional browsing artifacts.
type TaskResult struct {
	FinalResult  string        `json:"final_result"`
	Logs         []trace.Entry `json:"logs"`
	ProcessedURL *string       `json:"processed_url"`
	Screenshot   *string       `json:"screenshot"`
}

// Fixed result messages for the outcomes that do not come from a model.
const (
	// resultDefault is returned when the plan finished without any action
	// producing a final answer.
	resultDefault = "Task completed successfully."

	// resultNoProvider is returned when no AI provider is active.
	resultNoProvider = "No AI provider is available. Please configure an API key and try again."

	// resultNoPlan is returned when the provider could not produce any plan.
	resultNoPlan = "I'm sorry, I couldn't figure out how to handle your request."

	// resultNoContent is returned when an extract_content action found no
	// page content to work with.
	resultNoContent = "I could not extract any content from the page."

	// resultInternalError is returned from the panic recovery boundary.
	resultInternalError = "I'm sorry, an internal error occurred while processing your request."
)
