// File: internal/services/retrieval/service.go
package retrieval

import (
	"context"
	"strings"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	chunkrepo "github.com/axiompharma/compliance-copilot/internal/repository/chunk"
	docrepo "github.com/axiompharma/compliance-copilot/internal/repository/document"
	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// SearchOptions narrows a search to specific documents and bounds the
// result count.
type SearchOptions struct {
	DocumentIDs []string
	Limit       int
}

// Service ranks chunks for a user's query and assembles the document
// context handed to the completion call.
type Service struct {
	chunkRepo    chunkrepo.ChunkRepository
	docRepo      docrepo.DocumentRepository
	defaultLimit int
	maxLimit     int
	logger       services.Logger
}

func NewService(
	chunkRepo chunkrepo.ChunkRepository,
	docRepo docrepo.DocumentRepository,
	defaultLimit, maxLimit int,
	logger services.Logger,
) (*Service, error) {
	if chunkRepo == nil {
		return nil, apperrors.NewValidationError("constructor", "chunk repository is required")
	}
	if docRepo == nil {
		return nil, apperrors.NewValidationError("constructor", "document repository is required")
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &Service{
		chunkRepo:    chunkRepo,
		docRepo:      docRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}, nil
}

// Search runs the primary full-text strategy and, only when it returns zero
// rows, iterates the query's words as case-insensitive substring probes.
// The first word producing rows wins; results are never unioned across
// words. An empty result after fallback is a valid "no results", not an
// error.
func (s *Service) Search(ctx context.Context, userID, query string, opts SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("search", "query cannot be empty")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	results, err := s.chunkRepo.SearchFullText(ctx, userID, query, opts.DocumentIDs, limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		s.logger.Debug("full-text search hit", "query", query, "results", len(results))
		return results, nil
	}

	for _, word := range fallbackWords(query) {
		results, err = s.chunkRepo.SearchSubstring(ctx, userID, word, opts.DocumentIDs, limit)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			s.logger.Debug("substring fallback hit", "word", word, "results", len(results))
			for i := range results {
				results[i].Text = makeSnippet(results[i].Text, word)
			}
			return results, nil
		}
	}

	return []domain.SearchResult{}, nil
}

// fallbackWords splits the query into lowercase whitespace-delimited words
// longer than one character, preserving order.
func fallbackWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

// GetDocumentSummaries fetches document-level context for the prompt. A
// manual summary always wins over an AI-generated one.
func (s *Service) GetDocumentSummaries(ctx context.Context, userID string, documentIDs []string) ([]domain.DocumentSummary, error) {
	docs, err := s.docRepo.FindByIDsAndUser(ctx, userID, documentIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summary := doc.Summary
		if summary == "" {
			if ai, ok := doc.Metadata["aiSummary"].(string); ok {
				summary = ai
			}
		}
		summaries = append(summaries, domain.DocumentSummary{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Title:      doc.Title,
			Summary:    summary,
			FileType:   doc.FileType,
		})
	}
	return summaries, nil
}
