package schema

import (
	"fmt"
	"strings"
)

// maxDiagnosticsInPrompt caps how many violations a corrective prompt
// enumerates; past that the list is noise for the model.
const maxDiagnosticsInPrompt = 12

// RepairPrompt builds the corrective follow-up message sent back to the
// model after its payload failed validation. It names the specific
// violations so the model can fix and resend rather than guess.
func RepairPrompt(diags []string, daysOnly bool) string {
	shown := diags
	truncated := 0
	if len(shown) > maxDiagnosticsInPrompt {
		truncated = len(shown) - maxDiagnosticsInPrompt
		shown = shown[:maxDiagnosticsInPrompt]
	}

	var b strings.Builder
	b.WriteString("Your previous response did not match the required structure. Problems found:\n")
	for _, d := range shown {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	if truncated > 0 {
		fmt.Fprintf(&b, "- (and %d more)\n", truncated)
	}
	b.WriteString("\nRespond again with a single JSON object")
	if daysOnly {
		b.WriteString(` of the form {"days": [...]}, containing only the requested days`)
	} else {
		b.WriteString(" containing the complete itinerary")
	}
	b.WriteString(". Fix every problem listed above. Do not include any prose, apology, or markdown outside the JSON.")
	return b.String()
}
