// File: internal/domain/conversation.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Source links a message back to the document a retrieved chunk came from.
// A message used RAG iff it carries at least one source.
type Source struct {
	DocumentID string `json:"documentId"`
	Filename   string `json:"filename,omitempty"`
	Title      string `json:"title,omitempty"`
	ChunkIndex int    `json:"chunkIndex,omitempty"`
}

// Message is a single entry in a conversation. Timestamp may be zero for
// clients that never set one; such messages sort first.
type Message struct {
	ID        string         `json:"id"`
	Role      string         `json:"role,omitempty"`
	Content   string         `json:"content,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
	Sources   []Source       `json:"sources,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// UsedRAG reports whether this message was answered with retrieved context.
func (m Message) UsedRAG() bool {
	return len(m.Sources) > 0
}

// MessageList stores the full ordered message history as a single JSON
// column, since the merge service always rewrites the whole list.
type MessageList []Message

func (l MessageList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(MessageList{})
	}
	return json.Marshal(l)
}

func (l *MessageList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for MessageList")
	}
	return json.Unmarshal(bytes, l)
}

// Conversation is one chat thread, keyed by a client-resolvable id so the
// same thread can be appended to across stateless requests.
type Conversation struct {
	ID        string            `json:"id" gorm:"primaryKey;size:128"`
	UserID    string            `json:"user_id" gorm:"size:128;not null;index"`
	Messages  MessageList       `json:"messages" gorm:"type:jsonb"`
	Metadata  datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}
