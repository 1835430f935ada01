// File: internal/services/document/filetype_test.go
package document

import "testing"

func TestNormalizeFileType(t *testing.T) {
	allowed := map[string]bool{
		"pdf": true, "docx": true, "csv": true, "text": true,
		"markdown": true, "json": true, "other": true,
	}

	cases := []struct {
		name     string
		hint     string
		filename string
		want     string
	}{
		{"mime pdf", "application/pdf", "report.bin", "pdf"},
		{"extension hint", "pdf", "report.bin", "pdf"},
		{"dotted extension hint", ".pdf", "report.bin", "pdf"},
		{"mime with charset parameter", "text/plain; charset=utf-8", "notes", "text"},
		{"uppercase hint", "PDF", "report.bin", "pdf"},
		{"fallback to filename extension", "", "minutes.docx", "docx"},
		{"markdown by extension", "", "readme.md", "markdown"},
		{"unknown maps to other", "application/x-mystery", "data.zzz", "other"},
		{"docx long mime", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "x", "docx"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeFileType(tc.hint, tc.filename, allowed); got != tc.want {
				t.Fatalf("normalizeFileType(%q, %q) = %q, want %q", tc.hint, tc.filename, got, tc.want)
			}
		})
	}
}

func TestNormalizeFileTypeConstrainedSet(t *testing.T) {
	// xlsx maps cleanly but is not allowed; degrade through other → text.
	allowed := map[string]bool{"text": true, "pdf": true}
	if got := normalizeFileType("xlsx", "sheet.xlsx", allowed); got != "text" {
		t.Fatalf("constrained xlsx = %q, want text fallback", got)
	}

	// Empty allowed set means unconstrained.
	if got := normalizeFileType("xlsx", "sheet.xlsx", nil); got != "xlsx" {
		t.Fatalf("unconstrained xlsx = %q, want xlsx", got)
	}
}
