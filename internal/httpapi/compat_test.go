package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "taskhub-session_token"

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	res := rr.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFToken(t *testing.T) {
	h := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rr := doJSON(t, h, method, "/api/auth/csrf", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var out map[string]string
		decodeBody(t, rr, &out)
		assert.NotEmpty(t, out["csrf_token"])
	}
}

func TestCompatSignUpFlow(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/auth/sign-up/email", "", map[string]string{
		"email":    "carol@x.com",
		"password": "Str0ng!Pw",
		"name":     "Carol",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out struct {
		User struct {
			ID            string `json:"id"`
			Email         string `json:"email"`
			Name          string `json:"name"`
			EmailVerified bool   `json:"emailVerified"`
		} `json:"user"`
		Session struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
			ExpiresAt    string `json:"expiresAt"`
		} `json:"session"`
	}
	decodeBody(t, rr, &out)
	assert.Equal(t, "carol@x.com", out.User.Email)
	assert.Equal(t, "Carol", out.User.Name)
	assert.True(t, out.User.EmailVerified)
	assert.NotEmpty(t, out.Session.AccessToken)
	assert.Empty(t, out.Session.RefreshToken)

	cookie := findCookie(rr, sessionCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, out.Session.AccessToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// The compat token works on the primary task endpoints too: one token
	// service, two transports.
	taskRR := doJSON(t, h, http.MethodGet, "/api/tasks", out.Session.AccessToken, nil)
	assert.Equal(t, http.StatusOK, taskRR.Code)
}

func TestCompatSignInAndSession(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/auth/sign-up/email", "", map[string]string{
		"email": "carol@x.com", "password": "Str0ng!Pw",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/api/auth/sign-in/email", "", map[string]string{
		"email": "carol@x.com", "password": "Str0ng!Pw",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := findCookie(rr, sessionCookie)
	require.NotNil(t, cookie)

	// Session endpoint resolves the cookie transport.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	sessRR := httptest.NewRecorder()
	h.ServeHTTP(sessRR, req)
	require.Equal(t, http.StatusOK, sessRR.Code)

	var out struct {
		User *struct {
			Email string `json:"email"`
		} `json:"user"`
		Session *struct {
			AccessToken string `json:"accessToken"`
		} `json:"session"`
	}
	decodeBody(t, sessRR, &out)
	require.NotNil(t, out.User)
	assert.Equal(t, "carol@x.com", out.User.Email)
	require.NotNil(t, out.Session)
	assert.Equal(t, cookie.Value, out.Session.AccessToken)
}

func TestCompatSessionUnauthenticated(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/api/auth/session", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]any
	decodeBody(t, rr, &out)
	assert.Nil(t, out["user"])
	assert.Nil(t, out["session"])
}

func TestCompatSignInRejectsBadCredentials(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/auth/sign-in/email", "", map[string]string{
		"email": "ghost@x.com", "password": "Wh4tever!",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var out map[string]string
	decodeBody(t, rr, &out)
	assert.Equal(t, "Invalid email or password", out["detail"])
}

func TestCompatSignOut(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/auth/sign-up/email", "", map[string]string{
		"email": "carol@x.com", "password": "Str0ng!Pw",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := findCookie(rr, sessionCookie)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
	req.AddCookie(cookie)
	outRR := httptest.NewRecorder()
	h.ServeHTTP(outRR, req)
	require.Equal(t, http.StatusOK, outRR.Code)

	var out map[string]bool
	decodeBody(t, outRR, &out)
	assert.True(t, out["success"])

	cleared := findCookie(outRR, sessionCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}
