package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdto "github.com/orris-inc/ticketflow/internal/application/user/dto"
	"github.com/orris-inc/ticketflow/internal/infrastructure/config"
	"github.com/orris-inc/ticketflow/internal/infrastructure/persistence/testdb"
	sharedConfig "github.com/orris-inc/ticketflow/internal/shared/config"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	c       *Container
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Auth: sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{
			Secret: "test-secret", Issuer: "ticketflow", AccessExpMinutes: 60,
		}},
		Lock:       sharedConfig.LockConfig{Driver: sharedConfig.LockDriverMemory, TTLSeconds: 30, WaitTimeoutMs: 1000},
		Permission: sharedConfig.PermissionConfig{AdminRole: constants.DefaultAdminRole},
	}

	c, err := NewContainer(testdb.Open(t), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	require.NoError(t, c.InitPermissions())

	router := NewRouter(c)
	router.SetupRoutes()
	return &testServer{t: t, handler: router.Handler(), c: c}
}

func (s *testServer) user(name string, admin bool) (sid, token string) {
	s.t.Helper()
	u, err := s.c.UseCases().CreateUser.Execute(context.Background(), userdto.CreateUserRequest{
		Email: strings.ToLower(name) + "@example.com",
		Name:  name,
	})
	require.NoError(s.t, err)
	if admin {
		require.NoError(s.t, s.c.Enforcer().AddRoleForUser(u.ID, constants.DefaultAdminRole))
	}
	issued, err := s.c.JWTService().Generate(u.ID, time.Hour)
	require.NoError(s.t, err)
	return u.ID, issued.Token
}

func (s *testServer) do(method, path, token, body string, headers ...string) (int, apiEnvelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var env apiEnvelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func decodeID(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestRouter_Healthz(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/tickets", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_TicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	adminID, adminToken := s.user("Alice", true)
	_, bobToken := s.user("Bob", false)

	draft := fmt.Sprintf(`{
	  "title_en": "Laptop request",
	  "flows": [
	    {"operator": {"kind": "none"}, "form": {"fields": [
	      {"order": 0, "key": "reason", "required": true, "define": {"type": "SingleLineText", "max_texts": 200}}
	    ]}},
	    {"operator": {"kind": "user", "id": %q}, "review": {"restarted": false}}
	  ]
	}`, adminID)

	code, _ := s.do(http.MethodPost, "/schemas", bobToken, draft)
	require.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodPost, "/schemas", adminToken, draft)
	require.Equal(t, http.StatusCreated, code)
	schemaID := decodeID(t, env.Data)

	code, env = s.do(http.MethodGet, "/schemas/probable", bobToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), schemaID)

	code, env = s.do(http.MethodPost, "/schemas/"+schemaID+"/tickets", bobToken, `{"title": "New laptop"}`)
	require.Equal(t, http.StatusCreated, code)
	ticketID := decodeID(t, env.Data)

	code, env = s.do(http.MethodPost, "/tickets/"+ticketID+"/process", bobToken, `{"form": {}}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "field_errors", env.Error.Type)

	process := func() (int, apiEnvelope) {
		return s.do(http.MethodPost, "/tickets/"+ticketID+"/process", bobToken,
			`{"form": {"reason": "screen cracked"}}`, constants.HeaderIdempotencyKey, "submit-1")
	}
	code, env = process()
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"outcome":"advanced"`)

	code, env = process()
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"replayed":true`)

	code, _ = s.do(http.MethodPost, "/tickets/"+ticketID+"/process", bobToken, `{"review": {"approved": true}}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPost, "/tickets/"+ticketID+"/process", adminToken, `{"review": {"approved": true}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"outcome":"finished"`)

	code, env = s.do(http.MethodGet, "/tickets/"+ticketID, bobToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"status":"finished"`)

	code, env = s.do(http.MethodGet, "/tickets/"+ticketID+"/history", bobToken, "")
	require.Equal(t, http.StatusOK, code)
	var history []struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.NotEmpty(t, history)

	code, _ = s.do(http.MethodGet, "/schemas/"+schemaID+"/tickets", bobToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	code, env = s.do(http.MethodGet, "/schemas/"+schemaID+"/tickets", adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), ticketID)

	code, _ = s.do(http.MethodPost, "/tickets/"+ticketID+"/process", adminToken, `{"review": {"approved": true}}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestRouter_DirectoryNeedsPermission(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("Alice", true)
	bobID, bobToken := s.user("Bob", false)

	code, _ := s.do(http.MethodPost, "/roles", bobToken, `{"name": "Reviewers"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodPost, "/roles", adminToken, `{"name": "Reviewers"}`)
	require.Equal(t, http.StatusCreated, code)
	roleID := decodeID(t, env.Data)

	code, _ = s.do(http.MethodPost, "/roles/"+roleID+"/members", adminToken, fmt.Sprintf(`{"user_id": %q}`, bobID))
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/roles?with_members=true", adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), bobID)

	code, _ = s.do(http.MethodPost, "/blobs", bobToken, `{"kind": "image", "mime": "image/png", "size": 1024, "width": 10, "height": 10}`)
	assert.Equal(t, http.StatusCreated, code)
}
