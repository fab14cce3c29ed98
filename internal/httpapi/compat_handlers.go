package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskhub/internal/model"
	"taskhub/internal/service"
	"taskhub/internal/validation"
)

// The compatibility endpoints mirror the wire shapes of a hosted-auth client
// (camelCase bodies, session cookie) but run on the same token service and
// session table as the primary API.

const csrfTTL = time.Hour

func (a *API) sessionCookieName() string {
	return a.cookieName + "-session_token"
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.sessionCookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cookieSecure,
		Expires:  expires,
	})
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.sessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cookieSecure,
		MaxAge:   -1,
	})
}

func (a *API) handleCSRF(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	if err := a.csrf.Put(r.Context(), token, csrfTTL); err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

type compatCredentials struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Name        *string `json:"name"`
	CallbackURL *string `json:"callbackURL"`
}

type compatUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type compatSession struct {
	ID           string `json:"id"`
	ExpiresAt    string `json:"expiresAt"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type compatAuthResponse struct {
	User     compatUser    `json:"user"`
	Session  compatSession `json:"session"`
	Redirect *string       `json:"redirect"`
}

func toCompatUser(u *model.User, name *string) compatUser {
	displayName := u.Email
	if at := strings.Index(u.Email, "@"); at > 0 {
		displayName = u.Email[:at]
	}
	if name != nil && *name != "" {
		displayName = *name
	}
	return compatUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          displayName,
		EmailVerified: true,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *API) compatAuthBody(user *model.User, name *string, result *service.LoginResult, redirect *string) compatAuthResponse {
	return compatAuthResponse{
		User: toCompatUser(user, name),
		Session: compatSession{
			ID:           uuid.NewString(),
			ExpiresAt:    result.ExpiresAt.UTC().Format(time.RFC3339),
			AccessToken:  result.AccessToken,
			RefreshToken: "",
		},
		Redirect: redirect,
	}
}

func (a *API) handleCompatSignUp(w http.ResponseWriter, r *http.Request) {
	var in compatCredentials
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	user, err := a.authSvc.Register(r.Context(), in.Email, in.Password, nil)
	if err != nil {
		var fieldErr *validation.FieldError
		switch {
		case errors.As(err, &fieldErr):
			errorJSON(w, http.StatusBadRequest, fieldErr.Reason)
		case errors.Is(err, service.ErrEmailTaken):
			errorJSON(w, http.StatusBadRequest, "Email already registered")
		default:
			serverError(w, err)
		}
		return
	}

	result, err := a.authSvc.Login(r.Context(), in.Email, in.Password, service.LoginMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		serverError(w, err)
		return
	}

	a.setSessionCookie(w, result.AccessToken, result.ExpiresAt)
	writeJSON(w, http.StatusOK, a.compatAuthBody(user, in.Name, result, in.CallbackURL))
}

func (a *API) handleCompatSignIn(w http.ResponseWriter, r *http.Request) {
	var in compatCredentials
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	result, err := a.authSvc.Login(r.Context(), in.Email, in.Password, service.LoginMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			unauthorizedJSON(w, "Invalid email or password")
			return
		}
		serverError(w, err)
		return
	}

	a.setSessionCookie(w, result.AccessToken, result.ExpiresAt)
	writeJSON(w, http.StatusOK, a.compatAuthBody(result.User, nil, result, in.CallbackURL))
}

func (a *API) handleCompatSignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(a.sessionCookieName()); err == nil && c.Value != "" {
		if err := a.authSvc.Logout(r.Context(), c.Value); err != nil {
			serverError(w, err)
			return
		}
	}
	a.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleCompatSession resolves the current user from either transport and
// never 401s: an unauthenticated caller just gets a null session.
func (a *API) handleCompatSession(w http.ResponseWriter, r *http.Request) {
	empty := map[string]any{"session": nil, "user": nil}

	token := bearerToken(r)
	if token == "" {
		if c, err := r.Cookie(a.sessionCookieName()); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		writeJSON(w, http.StatusOK, empty)
		return
	}

	subject, err := a.tokens.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusOK, empty)
		return
	}
	user, err := a.users.FindByID(r.Context(), subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusOK, empty)
			return
		}
		serverError(w, err)
		return
	}

	session := compatSession{AccessToken: token}
	if row, err := a.sessions.FindByToken(r.Context(), token); err == nil {
		session.ID = row.ID
		session.ExpiresAt = row.ExpiresAt.UTC().Format(time.RFC3339)
		if err := a.sessions.Touch(r.Context(), row, time.Now().UTC()); err != nil {
			serverError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    toCompatUser(user, nil),
		"session": session,
	})
}
