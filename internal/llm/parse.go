package llm

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe      = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?(.*?)```")
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// ExtractJSON pulls the first JSON object out of a model reply. Models often
// wrap JSON in code fences or surround it with prose, so the text is
// unfenced first and then scanned for a balanced {...} block.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in response")
}

// StripMarkdown removes the markdown artifacts chat models tend to emit
// (bold, italic, fenced and inline code, headings) while preserving the
// plain text content.
func StripMarkdown(text string) string {
	text = fenceRe.ReplaceAllString(text, "$1")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
