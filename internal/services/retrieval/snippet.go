// File: internal/services/retrieval/snippet.go
package retrieval

import "strings"

// snippetWindow bounds how many words a fallback snippet may carry, matching
// the headline window used by the primary full-text path.
const snippetWindow = 32

// makeSnippet extracts a bounded word window around the first occurrence of
// term, highlighting the hit with the same <b></b> markers the full-text
// headline generator emits. Falls back to the leading window when the term
// is not found as a whole word.
func makeSnippet(text, term string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	lowered := strings.ToLower(term)
	hit := -1
	for i, w := range words {
		if strings.Contains(strings.ToLower(w), lowered) {
			hit = i
			break
		}
	}

	start, end := 0, len(words)
	if hit >= 0 {
		start = hit - snippetWindow/2
		if start < 0 {
			start = 0
		}
		end = start + snippetWindow
		if end > len(words) {
			end = len(words)
		}
	} else if end > snippetWindow {
		end = snippetWindow
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == hit {
			out = append(out, "<b>"+words[i]+"</b>")
		} else {
			out = append(out, words[i])
		}
	}
	return strings.Join(out, " ")
}
