package judge

import (
	"strings"
	"unicode"
)

// CountTokens provides a simple token count approximation, good enough
// for budgeting prompt samples. Most tokenizers produce ~1.3 tokens per
// word plus separate tokens for punctuation.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}

	wordCount := len(strings.Fields(text))

	punctCount := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punctCount++
		}
	}

	return int(float64(wordCount)*1.3) + punctCount/2
}

// SampleByTokens returns the longest prefix of lines whose estimated
// token count stays within maxTokens. Used to carve a representative
// document sample for the analysis prompt without flooding the context
// window.
func SampleByTokens(lines []string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}

	var sb strings.Builder
	total := 0
	for _, line := range lines {
		n := CountTokens(line)
		if total+n > maxTokens && sb.Len() > 0 {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
		total += n
	}
	return sb.String()
}
