package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketflow/internal/infrastructure/auth"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	allowed bool
	err     error
}

func (s stubChecker) Enforce(string, string, string) (bool, error) {
	return s.allowed, s.err
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyUserID))
	})
	engine.GET("/", handlers...)
	return engine
}

func do(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(constants.HeaderAuthorization, header)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "ticketflow", 60)
	engine := newEngine(NewAuthMiddleware(jwtSvc, logger.NewNop()).RequireAuth())

	token, err := jwtSvc.Generate("usr_alice", time.Minute)
	require.NoError(t, err)

	w := do(engine, "Bearer "+token.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "usr_alice", w.Body.String())

	other := auth.NewJWTService("other", "ticketflow", 60)
	forged, err := other.Generate("usr_alice", time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"empty":      "Bearer ",
		"forged":     "Bearer " + forged.Token,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(engine, header).Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	setActor := func(c *gin.Context) { c.Set(constants.ContextKeyUserID, "usr_alice") }

	tests := []struct {
		name    string
		checker stubChecker
		actor   bool
		want    int
	}{
		{"allowed", stubChecker{allowed: true}, true, http.StatusOK},
		{"denied", stubChecker{}, true, http.StatusForbidden},
		{"checker error", stubChecker{err: errors.New("db down")}, true, http.StatusInternalServerError},
		{"no actor", stubChecker{allowed: true}, false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewPermissionMiddleware(tt.checker, logger.NewNop()).
				RequirePermission(constants.ResourceSchema, constants.ActionPublish)
			var engine *gin.Engine
			if tt.actor {
				engine = newEngine(setActor, mw)
			} else {
				engine = newEngine(mw)
			}
			assert.Equal(t, tt.want, do(engine, "").Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := newEngine(RequestID())

	w := do(engine, "")
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-42")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
