package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/validation"
)

var (
	// ErrEmailTaken is returned when registration hits a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures stay uniform.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// LoginMeta carries client metadata recorded on the session row.
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

// LoginResult is the issued token plus the persisted session record.
type LoginResult struct {
	User        *model.User
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService implements registration and login on top of the user and
// session repositories, the bcrypt hasher and the token service.
type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	tokens   *auth.TokenService
	loginTTL time.Duration
}

func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, tokens *auth.TokenService, loginTTL time.Duration) *AuthService {
	if loginTTL <= 0 {
		loginTTL = 30 * time.Minute
	}
	return &AuthService{users: users, sessions: sessions, tokens: tokens, loginTTL: loginTTL}
}

// Register validates the credentials, rejects duplicate emails and stores the
// new user with a hashed password. The plaintext never leaves this function.
func (s *AuthService) Register(ctx context.Context, email, password string, username *string) (*model.User, error) {
	if !validation.Email(email) {
		return nil, &validation.FieldError{Reason: "Invalid email format"}
	}
	if ok, reason := validation.PasswordStrength(password); !ok {
		return nil, &validation.FieldError{Reason: reason}
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials, issues a short-lived access token and records
// a session row. Unknown email and bad password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string, meta LoginMeta) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.loginTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.loginTTL)
	session := &model.Session{
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    expiresAt,
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session row for the token; the token itself simply ages
// out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
