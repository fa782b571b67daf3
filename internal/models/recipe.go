package models

import (
	"strings"
	"time"
)

// IndexStatus describes the last sync of the local recipe name index.
type IndexStatus struct {
	SyncedAt time.Time
	Count    int
}

// Synced reports whether the index was ever filled.
func (s IndexStatus) Synced() bool {
	return !s.SyncedAt.IsZero()
}

// FoldRecipeName is the case-insensitive lookup key for a recipe name.
func FoldRecipeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
