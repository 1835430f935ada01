// File: internal/services/document/patch.go
package document

import (
	"context"
	"strings"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/dtos"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

// PatchMetadata applies clears, then updates, then re-derives the
// denormalized title/summary/version columns and their aliases. A request
// with neither clears nor updates returns the document unchanged without
// touching updated_at.
func (s *Service) PatchMetadata(ctx context.Context, documentID, userID string, req *dtos.PatchMetadataRequest) (*domain.Document, error) {
	if documentID == "" {
		return nil, apperrors.NewValidationError("patch_metadata", "document id is required")
	}

	doc, err := s.docRepo.FindByIDAndUser(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	if req == nil || (len(req.Updates) == 0 && len(req.ClearFields) == 0) {
		return doc, nil
	}

	meta := copyMetadata(doc.Metadata)

	for _, field := range req.ClearFields {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "title":
			clearAliases(meta, titleAliases)
		case "summary", "description":
			// Synonyms: clearing either clears the summary value and all
			// its aliases.
			clearAliases(meta, summaryAliases)
		case "version":
			clearAliases(meta, versionAliases)
		case "category":
			delete(meta, "category")
		case "tags":
			delete(meta, "tags")
		default:
			s.logger.Debug("ignoring unrecognized clear field",
				"document_id", documentID, "field", field)
		}
	}

	for k, v := range req.Updates {
		meta[k] = v
	}

	// Re-derive the canonical values from the patched metadata. No filename
	// fallback here: a cleared title stays cleared.
	title := firstNonEmpty(meta, titleAliases)
	summary := firstNonEmpty(meta, summaryAliases)
	version := firstNonEmpty(meta, versionAliases)
	backfillAliases(meta, title, summary, version)

	doc.Metadata = meta
	doc.Title = title
	doc.Summary = summary
	doc.Version = version

	if err := s.docRepo.UpdateMetadata(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document metadata patched",
		"document_id", documentID, "user_id", userID,
		"cleared", len(req.ClearFields), "updated", len(req.Updates))
	return doc, nil
}
