// internal/provider/prompts.go
package provider

import "fmt"

// planPrompt instructs the planner model to emit a strict JSON action plan.
// The contract here mirrors what plan.Parse accepts.
func planPrompt(userInput string) string {
	return fmt.Sprintf(`You are a browser automation planner. Convert the user's request into a JSON object with a single "actions" array, executed in order.

Each action is an object with a "type" and the fields that type needs:
- {"type": "answer_directly", "question": "..."} answer from your own knowledge, no browsing.
- {"type": "browse", "url": "..."} navigate to a web page.
- {"type": "extract_content", "processing_goal": "..."} read the current page and work toward the goal.
- {"type": "click", "selector": "..."} click the element matched by the CSS selector.
- {"type": "type", "selector": "...", "text": "..."} type text into the matched element.
- {"type": "clarify", "message": "..."} ask the user for the detail you are missing.

Rules:
- Respond with ONLY the JSON object. No prose, no markdown fences, no comments.
- Use "answer_directly" for questions that need no browsing.
- Use "clarify" when the request is too ambiguous to act on.
- A "browse" must come before any "extract_content", "click", or "type".

User request: %s`, userInput)
}

// processPrompt asks the processor model to work extracted page content
// toward the plan's goal, with the original command as context. The markers
// keep instructions and page text apart.
func processPrompt(command, goal, content string) string {
	return fmt.Sprintf(`User Request: %q
Processing Goal: %q

Content from the website:
--- CONTENT START ---
%s
--- CONTENT END ---

Based on the user's request and the processing goal, analyze the content and provide a relevant response.
If the content is too large or complex, focus on the most relevant parts to address the processing goal.`,
		command, goal, content)
}
