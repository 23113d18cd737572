package models

import (
	"errors"
	"time"
)

// Snapshot represents a point-in-time reading of an entity's public
// counters (views, likes, comments). A snapshot is immutable once created;
// series for one entity are ordered by Timestamp ascending, earliest first.
type Snapshot struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entity_id"` // video or channel ID
	Views     uint64    `json:"views"`
	Likes     uint64    `json:"likes"`
	Comments  uint64    `json:"comments"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Validate checks that all snapshot fields are valid
func (s *Snapshot) Validate() error {
	if s.ID == "" {
		return errors.New("snapshot ID must not be empty")
	}
	if s.EntityID == "" {
		return errors.New("entity ID must not be empty")
	}
	if s.Timestamp.IsZero() {
		return errors.New("timestamp must be set")
	}
	if s.Source == "" {
		return errors.New("source must not be empty")
	}
	return nil
}
