package types

import "time"

// User is one registered account. Provider API keys are opaque strings; they
// are never logged and never echoed back to the client unmasked.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Username     string `gorm:"size:32;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	GeminiAPIKey string `gorm:"size:255" json:"-"`
	SerpAPIKey   string `gorm:"size:255" json:"-"`
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Setting is a named configuration value loaded at startup. Currently holds
// search_keywords, the configurable trigger set.
type Setting struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text"`
}
