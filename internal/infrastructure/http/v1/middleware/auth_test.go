package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "storekeeper/internal/core/context"
)

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (v stubValidator) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	return v.user, v.err
}

func newTestRouter(v JWTValidator, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())

	group := r.Group("/", Auth(v))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := newTestRouter(stubValidator{user: &appctx.UserContext{UserID: "u1"}})
	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	r := newTestRouter(stubValidator{user: &appctx.UserContext{UserID: "u1"}})
	w := doRequest(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := newTestRouter(stubValidator{err: errors.New("expired")})
	w := doRequest(r, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthValidToken(t *testing.T) {
	r := newTestRouter(stubValidator{user: &appctx.UserContext{UserID: "u1"}})
	w := doRequest(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		user *appctx.UserContext
		want int
	}{
		{
			name: "matching role passes",
			user: &appctx.UserContext{UserID: "u1", Roles: []string{"storekeeper"}},
			want: http.StatusOK,
		},
		{
			name: "missing role forbidden",
			user: &appctx.UserContext{UserID: "u1", Roles: []string{"viewer"}},
			want: http.StatusForbidden,
		},
		{
			name: "admin flag bypasses role check",
			user: &appctx.UserContext{UserID: "u1", IsAdmin: true},
			want: http.StatusOK,
		},
		{
			name: "no roles at all forbidden",
			user: &appctx.UserContext{UserID: "u1"},
			want: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(stubValidator{user: tt.user}, "admin", "storekeeper")
			w := doRequest(r, "Bearer good")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
