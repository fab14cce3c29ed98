package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskhub/internal/model"
	"taskhub/internal/service"
	"taskhub/internal/validation"
)

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Username *string `json:"username"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	user, err := a.authSvc.Register(r.Context(), in.Email, in.Password, in.Username)
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

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
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
			unauthorizedJSON(w, "Incorrect email or password")
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
	})
}
