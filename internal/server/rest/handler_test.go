package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	session *services.Session
	err     error

	gotIdentifier string
}

func (f *fakeUsers) Register(ctx context.Context, username, email, password string) (*services.Session, error) {
	return f.session, f.err
}

func (f *fakeUsers) Login(ctx context.Context, identifier, password string) (*services.Session, error) {
	f.gotIdentifier = identifier
	return f.session, f.err
}

func okSession() *services.Session {
	return &services.Session{
		User:  &models.User{ID: "u-1", Username: "ann", Email: "ann@example.com", PasswordHash: "$argon2id$secret"},
		Token: "tok",
	}
}

func newTestServer(t *testing.T, users UserService) *Server {
	t.Helper()
	return NewServer(Options{
		Users:  users,
		Codec:  newCodec(t),
		Logger: logging.NewNopLogger(),
	})
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		users  *fakeUsers
		status int
		want   string
	}{
		{"created", `{"username":"ann","email":"ann@example.com","password":"Password1"}`,
			&fakeUsers{session: okSession()}, http.StatusCreated,
			`{"id":"u-1","email":"ann@example.com","username":"ann","token":"tok"}`},
		{"bad json", `{`, &fakeUsers{}, http.StatusBadRequest, `{"error":"Invalid request body"}`},
		{"validation", `{"username":"a"}`, &fakeUsers{err: &services.ValidationError{Err: services.ErrInvalidUsername}},
			http.StatusBadRequest, `{"error":"` + services.ErrInvalidUsername.Error() + `"}`},
		{"duplicate", `{"username":"ann","email":"ann@example.com","password":"Password1"}`,
			&fakeUsers{err: common.ErrorAlreadyExists}, http.StatusConflict, `{"error":"User already exists"}`},
		{"internal", `{"username":"ann","email":"ann@example.com","password":"Password1"}`,
			&fakeUsers{err: errors.New("boom")}, http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.users)
			w := postJSON(s.Handler(), "/api/auth/register", tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			assert.NotContains(t, w.Body.String(), "argon2id")
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		users  *fakeUsers
		status int
		want   string
	}{
		{"ok", `{"identifier":"ann","password":"Password1"}`, &fakeUsers{session: okSession()}, http.StatusOK,
			`{"id":"u-1","email":"ann@example.com","username":"ann","token":"tok"}`},
		{"missing password", `{"identifier":"ann"}`, &fakeUsers{}, http.StatusBadRequest, `{"error":"Invalid request body"}`},
		{"rejected", `{"identifier":"ann","password":"nope"}`, &fakeUsers{err: services.ErrInvalidCredentials},
			http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"internal", `{"identifier":"ann","password":"nope"}`, &fakeUsers{err: common.ErrorInternal},
			http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.users)
			w := postJSON(s.Handler(), "/api/auth/login", tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestMe(t *testing.T) {
	codec := newCodec(t)
	s := NewServer(Options{Users: &fakeUsers{}, Codec: codec, Logger: logging.NewNopLogger()})

	tok, err := codec.Issue(auth.NewClaims("u-1", "ann@example.com", "ann", now))
	require.NoError(t, err)

	w := doRequest(s.Handler(), http.MethodGet, "/api/auth/me", "Bearer "+tok)
	require.Equal(t, http.StatusOK, w.Code)

	var got meResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "ann", got.Username)
	assert.True(t, got.IssuedAt.Equal(now))
	assert.True(t, got.ExpiresAt.Equal(now.Add(7*24*time.Hour)))

	w = doRequest(s.Handler(), http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, auth.MessageNoToken, errorBody(t, w))
}

func TestMe_ReadsClaimsFromGinContext(t *testing.T) {
	h := NewHandler(&fakeUsers{}, logging.NewNopLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(ContextClaimsKey, auth.NewClaims("u-9", "zed@example.com", "zed", now))

	h.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got meResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "u-9", got.ID)
	assert.Equal(t, "zed@example.com", got.Email)
}

func TestMe_WithoutGateIsUnauthorized(t *testing.T) {
	h := NewHandler(&fakeUsers{}, logging.NewNopLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, auth.MessageAuthenticationRequired, errorBody(t, w))
}
