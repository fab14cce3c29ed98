package service

import (
	"context"
	"time"

	"taskhub/internal/repository"
)

// SessionService owns session housekeeping; the sweep runs from the cron
// scheduler.
type SessionService struct {
	repo *repository.SessionRepository
}

func NewSessionService(repo *repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// CleanupExpired marks active sessions past their expiry as expired.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.ExpireStale(ctx, time.Now().UTC())
}
