package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier struct {
	uid string
	err error
}

func (v staticVerifier) VerifyToken(ctx context.Context, idToken string) (string, error) {
	return v.uid, v.err
}

func runAuth(t *testing.T, m *AuthMiddleware, authorization string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Authenticate(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("uid").(string))
	})
	return rec, handler(c)
}

func TestAuthenticateSetsUID(t *testing.T) {
	m := NewAuthMiddleware(staticVerifier{uid: "user-1"})

	rec, err := runAuth(t, m, "Bearer good-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(staticVerifier{uid: "user-1"})

	_, err := runAuth(t, m, "")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(staticVerifier{uid: "user-1"})

	_, err := runAuth(t, m, "Basic abc123")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(staticVerifier{err: fmt.Errorf("expired")})

	_, err := runAuth(t, m, "Bearer stale-token")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
