package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionExpired SessionStatus = "expired"
	SessionRevoked SessionStatus = "revoked"
)

// Session records an issued login token for auditing and the cookie-based
// compatibility flow. Bearer verification itself stays stateless; rows are
// never hard-deleted except through the user cascade.
type Session struct {
	ID             string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string        `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionToken   string        `gorm:"uniqueIndex;not null;size:500" json:"-"`
	Status         SessionStatus `gorm:"size:16;default:active" json:"status"`
	IPAddress      *string       `gorm:"size:45" json:"ip_address"`
	UserAgent      *string       `gorm:"size:500" json:"user_agent"`
	CreatedAt      time.Time     `json:"created_at"`
	ExpiresAt      time.Time     `gorm:"not null" json:"expires_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SessionActive
	}
	if s.LastAccessedAt.IsZero() {
		s.LastAccessedAt = time.Now().UTC()
	}
	return nil
}

func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

func (s *Session) IsActive() bool {
	return s.Status == SessionActive && !s.IsExpired()
}
