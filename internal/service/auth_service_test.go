package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/service"
	"taskhub/internal/validation"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func newAuthService(t *testing.T) (*service.AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return service.NewAuthService(users, sessions, tokens, 30*time.Minute), db
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "Str0ng!Pw", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "Str0ng!Pw", user.PasswordHash)
	assert.True(t, auth.CheckPassword("Str0ng!Pw", user.PasswordHash))
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "Str0ng!Pw"},
		{"weak password", "bob@x.com", "password"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.password, nil)
			var fieldErr *validation.FieldError
			assert.ErrorAs(t, err, &fieldErr)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "Str0ng!Pw", nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@x.com", "An0ther!Pw", nil)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@x.com", "Str0ng!Pw", nil)
	require.NoError(t, err)

	result, err := svc.Login(ctx, "alice@x.com", "Str0ng!Pw", service.LoginMeta{
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, user.ID, result.User.ID)

	tokens := auth.NewTokenService("test-secret", time.Hour)
	subject, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	// A session row is recorded with client metadata.
	var session model.Session
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&session).Error)
	assert.Equal(t, model.SessionActive, session.Status)
	assert.Equal(t, result.AccessToken, session.SessionToken)
	require.NotNil(t, session.IPAddress)
	assert.Equal(t, "203.0.113.7", *session.IPAddress)
	require.NotNil(t, session.UserAgent)
	assert.Equal(t, "test-agent", *session.UserAgent)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "Str0ng!Pw", nil)
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@x.com", "Str0ng!Pw", service.LoginMeta{})
	_, wrongPwErr := svc.Login(ctx, "alice@x.com", "Wr0ng!Pass", service.LoginMeta{})

	assert.ErrorIs(t, unknownErr, service.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, service.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@x.com", "Str0ng!Pw", nil)
	require.NoError(t, err)
	result, err := svc.Login(ctx, "alice@x.com", "Str0ng!Pw", service.LoginMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.AccessToken))

	var session model.Session
	require.NoError(t, db.Where("session_token = ?", result.AccessToken).First(&session).Error)
	assert.Equal(t, model.SessionRevoked, session.Status)
}

func TestSessionCleanup(t *testing.T) {
	db := newTestDB(t)
	sessions := repository.NewSessionRepository(db)
	svc := service.NewSessionService(sessions)
	ctx := context.Background()

	user := model.User{Email: "alice@x.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(&user).Error)

	stale := model.Session{
		UserID:       user.ID,
		SessionToken: "stale-token",
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}
	fresh := model.Session{
		UserID:       user.ID,
		SessionToken: "fresh-token",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)

	n, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var reloaded model.Session
	require.NoError(t, db.Where("session_token = ?", "stale-token").First(&reloaded).Error)
	assert.Equal(t, model.SessionExpired, reloaded.Status)

	require.NoError(t, db.Where("session_token = ?", "fresh-token").First(&reloaded).Error)
	assert.Equal(t, model.SessionActive, reloaded.Status)
}
