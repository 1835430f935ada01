// File: internal/services/retrieval/service_test.go
package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
	"gorm.io/datatypes"
)

type searchCall struct {
	kind  string // "fts" or "substring"
	term  string
	limit int
}

type stubChunkRepo struct {
	calls      []searchCall
	ftsResults []domain.SearchResult
	// substringResults maps a probe term to its rows; unlisted terms miss.
	substringResults map[string][]domain.SearchResult
}

func (r *stubChunkRepo) Create(ctx context.Context, c *domain.DocumentChunk) error  { return nil }
func (r *stubChunkRepo) DeleteByDocumentID(ctx context.Context, id string) error    { return nil }
func (r *stubChunkRepo) CountByDocumentID(ctx context.Context, id string) (int64, error) {
	return 0, nil
}

func (r *stubChunkRepo) SearchFullText(ctx context.Context, userID, query string, documentIDs []string, limit int) ([]domain.SearchResult, error) {
	r.calls = append(r.calls, searchCall{kind: "fts", term: query, limit: limit})
	return r.ftsResults, nil
}

func (r *stubChunkRepo) SearchSubstring(ctx context.Context, userID, term string, documentIDs []string, limit int) ([]domain.SearchResult, error) {
	r.calls = append(r.calls, searchCall{kind: "substring", term: term, limit: limit})
	return r.substringResults[term], nil
}

type stubDocRepo struct {
	docs []domain.Document
}

func (r *stubDocRepo) Upsert(ctx context.Context, doc *domain.Document) error { return nil }
func (r *stubDocRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*domain.Document, error) {
	return nil, apperrors.NewNotFoundError("document_find", "not found")
}
func (r *stubDocRepo) FindByIDsAndUser(ctx context.Context, userID string, ids []string) ([]domain.Document, error) {
	return r.docs, nil
}
func (r *stubDocRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Document, int64, error) {
	return nil, 0, nil
}
func (r *stubDocRepo) Delete(ctx context.Context, id, userID string) error        { return nil }
func (r *stubDocRepo) UpdateMetadata(ctx context.Context, doc *domain.Document) error { return nil }
func (r *stubDocRepo) AllowedFileTypes(ctx context.Context) ([]string, error)     { return nil, nil }

func newTestService(t *testing.T, chunks *stubChunkRepo, docs *stubDocRepo) *Service {
	t.Helper()
	svc, err := NewService(chunks, docs, 0, 0, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestService(t, &stubChunkRepo{}, &stubDocRepo{})
	_, err := svc.Search(context.Background(), "u1", "   ", SearchOptions{})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchFullTextWins(t *testing.T) {
	chunks := &stubChunkRepo{
		ftsResults: []domain.SearchResult{{DocumentID: "d1", Text: "ranked <b>hit</b>", Rank: 0.4}},
	}
	svc := newTestService(t, chunks, &stubDocRepo{})

	results, err := svc.Search(context.Background(), "u1", "deviation handling", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].DocumentID != "d1" {
		t.Fatalf("unexpected results: %+v", results)
	}
	// A ranked hit must never trigger the fallback.
	for _, call := range chunks.calls {
		if call.kind == "substring" {
			t.Fatal("substring fallback ran despite full-text rows")
		}
	}
}

func TestSearchFallbackFirstWordWins(t *testing.T) {
	chunks := &stubChunkRepo{
		substringResults: map[string][]domain.SearchResult{
			"xyz123": {{DocumentID: "d2", ChunkIndex: 0, Text: "batch code xyz123 rejected during QA review"}},
		},
	}
	svc := newTestService(t, chunks, &stubDocRepo{})

	results, err := svc.Search(context.Background(), "u1", "a missing xyz123 trailing", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].DocumentID != "d2" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !strings.Contains(results[0].Text, "<b>xyz123</b>") {
		t.Fatalf("fallback hit not highlighted: %q", results[0].Text)
	}

	// Single-character words are never probed; probes stop at the first hit.
	wantProbes := []string{"missing", "xyz123"}
	var probes []string
	for _, call := range chunks.calls {
		if call.kind == "substring" {
			probes = append(probes, call.term)
		}
	}
	if len(probes) != len(wantProbes) {
		t.Fatalf("probes = %v, want %v", probes, wantProbes)
	}
	for i, p := range probes {
		if p != wantProbes[i] {
			t.Fatalf("probe %d = %q, want %q", i, p, wantProbes[i])
		}
	}
}

func TestSearchNoResultsIsNotAnError(t *testing.T) {
	svc := newTestService(t, &stubChunkRepo{}, &stubDocRepo{})
	results, err := svc.Search(context.Background(), "u1", "nothing matches here", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", results)
	}
}

func TestSearchLimitClamping(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		want      int
	}{
		{"default when unset", 0, DefaultLimit},
		{"default when negative", -5, DefaultLimit},
		{"passthrough in range", 25, 25},
		{"clamped to max", 500, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := &stubChunkRepo{
				ftsResults: []domain.SearchResult{{DocumentID: "d1", Text: "hit"}},
			}
			svc := newTestService(t, chunks, &stubDocRepo{})
			if _, err := svc.Search(context.Background(), "u1", "query string", SearchOptions{Limit: tc.requested}); err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := chunks.calls[0].limit; got != tc.want {
				t.Fatalf("limit passed to repository = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestGetDocumentSummariesManualWins(t *testing.T) {
	docs := &stubDocRepo{docs: []domain.Document{
		{
			ID: "d1", Filename: "a.txt", Summary: "curated summary",
			Metadata: datatypes.JSONMap{"aiSummary": "machine summary"},
		},
		{
			ID: "d2", Filename: "b.txt",
			Metadata: datatypes.JSONMap{"aiSummary": "machine summary"},
		},
	}}
	svc := newTestService(t, &stubChunkRepo{}, docs)

	summaries, err := svc.GetDocumentSummaries(context.Background(), "u1", []string{"d1", "d2"})
	if err != nil {
		t.Fatalf("GetDocumentSummaries: %v", err)
	}
	if summaries[0].Summary != "curated summary" {
		t.Fatalf("manual summary lost: %q", summaries[0].Summary)
	}
	if summaries[1].Summary != "machine summary" {
		t.Fatalf("aiSummary fallback lost: %q", summaries[1].Summary)
	}
}

func TestMakeSnippet(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = "w"
	}
	words[60] = "needle"
	text := strings.Join(words, " ")

	snippet := makeSnippet(text, "needle")
	if !strings.Contains(snippet, "<b>needle</b>") {
		t.Fatalf("snippet lacks highlight: %q", snippet)
	}
	if got := len(strings.Fields(snippet)); got > snippetWindow {
		t.Fatalf("snippet window = %d words, want <= %d", got, snippetWindow)
	}

	// Missing term: leading window, no highlight.
	snippet = makeSnippet(text, "absent")
	if strings.Contains(snippet, "<b>") {
		t.Fatalf("unexpected highlight: %q", snippet)
	}
	if got := len(strings.Fields(snippet)); got != snippetWindow {
		t.Fatalf("leading window = %d words, want %d", got, snippetWindow)
	}
}
