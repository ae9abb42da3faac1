package recommend

import (
	"fmt"
	"strings"

	"github.com/flowfind/flowfind/internal/catalog"
)

// buildContext renders the retrieved entries as grounding context, one block
// per workflow separated by blank lines. Links are deliberately omitted so
// the model cannot echo them.
func buildContext(results []catalog.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Workflow: %s\nDescription: %s", r.Name, r.Description))
	}
	return strings.Join(blocks, "\n\n")
}

// buildPrompt assembles the grounding prompt for a query and its retrieved
// context.
func buildPrompt(query string, results []catalog.SearchResult) string {
	return fmt.Sprintf(`Based on the user's query: "%s"

Here are the most relevant automation workflows I found:

%s

Please provide a helpful response that:
1. Directly answers the user's question
2. For each recommended workflow, include:
   - The workflow name in bold (use **name**)
   - A "Why:" explanation of why this workflow is suitable for their needs
3. Use numbered list format like:
   1. **Workflow Name**
      - **Why:** Explanation of why this workflow fits their needs
4. Keep explanations concise but informative
5. Do NOT include any links or URLs in your response

Response:`, query, buildContext(results))
}
