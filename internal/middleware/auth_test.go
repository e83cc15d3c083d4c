package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/pkg/auth"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f fakeBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	return f.revoked[token], f.err
}

func newRouter(bl TokenBlacklist, m *auth.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(m, bl), func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentUser(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	token, err := m.Generate("u1", "alice")
	require.NoError(t, err)
	revoked, err := m.Generate("u2", "bob")
	require.NoError(t, err)

	bl := fakeBlacklist{revoked: map[string]bool{revoked: true}}

	tests := []struct {
		name   string
		url    string
		header string
		bl     TokenBlacklist
		status int
	}{
		{"bearer header", "/me", "Bearer " + token, bl, http.StatusOK},
		{"query token", "/me?token=" + token, "", bl, http.StatusOK},
		{"missing", "/me", "", bl, http.StatusUnauthorized},
		{"invalid", "/me", "Bearer nope", bl, http.StatusUnauthorized},
		{"revoked", "/me", "Bearer " + revoked, bl, http.StatusUnauthorized},
		{"redis down", "/me", "Bearer " + token, fakeBlacklist{err: errors.New("down")}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newRouter(tt.bl, m).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"u1","username":"alice"}`, w.Body.String())
			}
		})
	}
}
