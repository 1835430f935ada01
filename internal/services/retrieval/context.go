// File: internal/services/retrieval/context.go
package retrieval

import (
	"encoding/json"

	"github.com/axiompharma/compliance-copilot/internal/domain"
)

// contextMaxChars bounds the serialized prompt context. Roughly 4 characters
// per token keeps the context near 4k tokens.
const contextMaxChars = 16000

// PromptContext is the response-ready document context handed to the
// completion call: ranked search hits plus document-level summaries.
type PromptContext struct {
	Results   []domain.SearchResult    `json:"results"`
	Summaries []domain.DocumentSummary `json:"summaries"`
}

// BuildContext assembles the prompt context, trimming lowest-ranked hits
// first when the serialized form would blow the size bound.
func BuildContext(results []domain.SearchResult, summaries []domain.DocumentSummary) *PromptContext {
	pc := &PromptContext{Results: results, Summaries: summaries}
	for len(pc.Results) > 1 && len(pc.Serialize()) > contextMaxChars {
		pc.Results = pc.Results[:len(pc.Results)-1]
	}
	return pc
}

// Serialize renders the context as the JSON block embedded in the prompt.
func (pc *PromptContext) Serialize() string {
	data, err := json.Marshal(pc)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// SourceList derives the message sources from the hits that produced the
// answer, deduplicated by document.
func (pc *PromptContext) SourceList() []domain.Source {
	seen := make(map[string]bool, len(pc.Results))
	sources := make([]domain.Source, 0, len(pc.Results))
	for _, r := range pc.Results {
		if seen[r.DocumentID] {
			continue
		}
		seen[r.DocumentID] = true
		sources = append(sources, domain.Source{
			DocumentID: r.DocumentID,
			Filename:   r.Filename,
			Title:      r.Title,
			ChunkIndex: r.ChunkIndex,
		})
	}
	return sources
}
