package judge

import (
	"fmt"
	"strings"
)

// systemPrompt frames every judgment call.
const systemPrompt = `You are a professional document analyst, skilled at identifying and extracting heading structures from documents.

Your capabilities include:
1. Accurately identify headings at all levels in documents
2. Understand semantic and hierarchical relationships of headings
3. Distinguish headings from regular body text
4. Build complete heading tree structures

Your working principles:
- Base analysis on contextual understanding, not just formatting
- Maintain completeness and accuracy of headings
- Correctly determine hierarchical relationships
- Provide confidence assessments for uncertain cases`

// headingIdentificationTemplate asks whether one text span is a heading.
const headingIdentificationTemplate = `Task: Determine if the following text is a heading

Text: "%s"
`

const headingIdentificationFormat = `
Analyze step by step:
1. Observe the text features (length, format, numbering)
2. Consider the semantic content (is it a summarizing label?)
3. Weigh the surrounding context
4. Give a final judgment

Output format:
{
    "is_heading": true/false,
    "confidence": 0.0-1.0,
    "level_guess": 1-6 (if is heading),
    "reasoning": "your analysis"
}`

func headingIdentificationPrompt(text, context string) string {
	prompt := fmt.Sprintf(headingIdentificationTemplate, text)
	if context != "" {
		prompt += fmt.Sprintf("\nContext:\n%s\n", context)
	}
	return prompt + headingIdentificationFormat
}

// levelDeterminationFormat closes the batched level prompt.
const levelDeterminationFormat = `
Output format:
{
    "headings": [
        {
            "text": "heading text",
            "level": 1-6,
            "reasoning": "reason for level determination"
        },
        ...
    ]
}`

func levelDeterminationPrompt(texts []string) string {
	var sb strings.Builder
	sb.WriteString("Task: Determine accurate levels (1-6) for the following headings\n\nHeadings:\n")
	for i, text := range texts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, text)
	}
	sb.WriteString(levelDeterminationFormat)
	return sb.String()
}

// reflectionTemplate audits a finished outline for completeness.
const reflectionTemplate = `Task: Reflect on and validate heading extraction results

Current heading structure:
%s

Check:
1. Are there any missing headings?
2. Are the hierarchy relationships reasonable?
3. Are there any incorrectly identified headings?
4. Are the headings complete?

Output format:
{
    "is_complete": true/false,
    "missing_headings": ["possibly missing headings"],
    "incorrect_headings": ["possibly incorrect headings"],
    "suggestions": "improvement suggestions",
    "confidence": 0.0-1.0
}`

// analysisTemplate asks for a free-text read of the document's shape.
const analysisTemplate = `Analyze the overall structure of this document:

%s

Briefly describe:
1. The document type (paper, report, book, filing)
2. How its headings are likely organized
3. Features to watch for when identifying headings`
