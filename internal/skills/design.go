package skills

import (
	"regexp"
	"strings"
)

// Capability tags a task with the skill set the agent should bring.
type Capability string

const (
	// CapNone means no special skills are needed.
	CapNone Capability = ""
	// CapVisualDesign means the task touches visual design or CSS and
	// the agent should apply design skills plus a visual verification pass.
	CapVisualDesign Capability = "visual-design"
)

// DetectResult holds the classification of a task description.
type DetectResult struct {
	Capability Capability `json:"capability"`
	Matched    []string   `json:"matched,omitempty"`
}

// designKeywords matches terms in a task description that suggest
// visual-design work. Plural and common suffix forms are included so
// phrasing like "fix the paddings" still matches.
var designKeywords = regexp.MustCompile(
	`(?i)\b(paddings?|margins?|colou?rs?|layouts?|` +
		`responsive(ness)?|spacing|whitespace|fonts?|typography|` +
		`align(ment|ed)?|css|styl(e|es|ing)|themes?|` +
		`contrast|hover|breakpoints?|viewport|` +
		`flexbox|grid|borders?|shadows?|gradients?|animations?)\b`,
)

// Classify inspects a free-text task description and returns a
// capability tag plus the distinct matched terms. It is a pure function
// with no effect on loop control flow.
func Classify(text string) DetectResult {
	result := DetectResult{Capability: CapNone}
	if text == "" {
		return result
	}

	matches := designKeywords.FindAllString(text, -1)
	if len(matches) == 0 {
		return result
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		lower := strings.ToLower(m)
		if !seen[lower] {
			seen[lower] = true
			result.Matched = append(result.Matched, lower)
		}
	}
	result.Capability = CapVisualDesign
	return result
}

// DetectDesignKeywords reports whether the task description mentions
// design or CSS related work.
func DetectDesignKeywords(text string) bool {
	return Classify(text).Capability == CapVisualDesign
}
