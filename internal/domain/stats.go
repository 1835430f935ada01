// File: internal/domain/stats.go
package domain

import "time"

// UserStats is the per-user aggregate maintained incrementally on every
// conversation write. It is never recomputed by scan during normal
// operation; only the explicit recompute endpoint rebuilds it.
type UserStats struct {
	UserID           string    `json:"user_id" gorm:"primaryKey;size:128"`
	Conversations    int64     `json:"conversations" gorm:"not null;default:0"`
	Messages         int64     `json:"messages" gorm:"not null;default:0"`
	RagConversations int64     `json:"rag_conversations" gorm:"not null;default:0"`
	LastUpdated      time.Time `json:"last_updated"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// StatsDelta is a signed adjustment to UserStats. Zero fields mean "no
// change"; application clamps each counter at zero.
type StatsDelta struct {
	Conversations    int64 `json:"conversations,omitempty"`
	Messages         int64 `json:"messages,omitempty"`
	RagConversations int64 `json:"rag_conversations,omitempty"`
}

// IsZero reports whether the delta would change nothing.
func (d StatsDelta) IsZero() bool {
	return d.Conversations == 0 && d.Messages == 0 && d.RagConversations == 0
}
