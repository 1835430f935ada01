// File: internal/domain/filetype.go
package domain

// DocumentFileType is a reference row bounding the allowed document type
// categories. Seeded at migration time; ingestion queries the set once and
// caches it for the process lifetime.
type DocumentFileType struct {
	Name string `json:"name" gorm:"primaryKey;size:50"`
}

func (DocumentFileType) TableName() string {
	return "document_file_types"
}

// CanonicalFileTypes is the seed set for document_file_types.
var CanonicalFileTypes = []string{
	"pdf", "docx", "doc", "csv", "text", "markdown",
	"json", "html", "xml", "xlsx", "pptx", "other",
}
