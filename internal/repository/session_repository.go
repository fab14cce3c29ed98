package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// SessionRepository manages persisted login sessions.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Touch refreshes the last-accessed timestamp.
func (r *SessionRepository) Touch(ctx context.Context, session *model.Session, at time.Time) error {
	session.LastAccessedAt = at
	if err := r.db.WithContext(ctx).Model(session).Update("last_accessed_at", at).Error; err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Revoke marks the session revoked; the row stays for auditing.
func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("session_token = ? AND status = ?", token, model.SessionActive).
		Update("status", model.SessionRevoked).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// ExpireStale flips active sessions past their expiry to expired and returns
// how many rows changed.
func (r *SessionRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("status = ? AND expires_at < ?", model.SessionActive, now).
		Update("status", model.SessionExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expire sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]model.Session, error) {
	var sessions []model.Session
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
