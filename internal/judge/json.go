package judge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON extracts and parses JSON from a model response. It
// handles responses wrapped in ```json ... ``` blocks and repairs the
// usual model slip-ups: Python-style None literals and trailing commas.
func ExtractJSON[T any](content string) (T, error) {
	var result T

	content = strings.TrimSpace(content)
	if startIdx := strings.Index(content, "```json"); startIdx != -1 {
		startIdx += 7
		if endIdx := strings.LastIndex(content, "```"); endIdx > startIdx {
			content = content[startIdx:endIdx]
		}
	} else if startIdx := strings.Index(content, "```"); startIdx != -1 {
		startIdx += 3
		if endIdx := strings.LastIndex(content[startIdx:], "```"); endIdx != -1 {
			content = content[startIdx : startIdx+endIdx]
		}
	}

	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "None", "null")

	if err := json.Unmarshal([]byte(content), &result); err != nil {
		content = strings.ReplaceAll(content, ",]", "]")
		content = strings.ReplaceAll(content, ",}", "}")
		if err := json.Unmarshal([]byte(content), &result); err != nil {
			return result, fmt.Errorf("failed to parse JSON: %w (content: %s)", err, truncate(content, 200))
		}
	}

	return result, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
