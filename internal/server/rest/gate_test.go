package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec([]byte("test-secret"), auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return c
}

// gatedRouter mounts a protected route that echoes the subject it saw.
func gatedRouter(t *testing.T, codec *auth.Codec, m *metrics.Metrics) *gin.Engine {
	t.Helper()
	g := NewGate(codec, m, logging.NewNopLogger())

	r := gin.New()
	r.POST("/posts", g.Authenticate(), g.RequireAuth(), func(c *gin.Context) {
		claims, ok := auth.ClaimsFromContext(c.Request.Context())
		require.True(t, ok)
		fromGin, ok := c.Get(ContextClaimsKey)
		require.True(t, ok)
		assert.Equal(t, claims, fromGin)
		c.JSON(http.StatusCreated, gin.H{"author": claims.SubjectID})
	})
	r.POST("/unguarded", g.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r http.Handler, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestGate_Authenticate(t *testing.T) {
	codec := newCodec(t)

	valid, err := codec.Issue(auth.NewClaims("u-1", "a@example.com", "ann", now))
	require.NoError(t, err)
	expired, err := codec.Issue(auth.NewClaims("u-1", "a@example.com", "ann", now.Add(-8*24*time.Hour)))
	require.NoError(t, err)
	tampered := []byte(valid)
	tampered[len(tampered)/2] ^= 0x01

	tests := []struct {
		name   string
		header string
		status int
		msg    string
		state  auth.GateState
	}{
		{"no header", "", http.StatusUnauthorized, auth.MessageNoToken, auth.StateNoHeader},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized, auth.MessageNoToken, auth.StateMalformedHeader},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, auth.MessageNoToken, auth.StateMalformedHeader},
		{"garbage", "Bearer garbage", http.StatusUnauthorized, auth.MessageInvalidToken, auth.StateTokenRejected},
		{"tampered", "Bearer " + string(tampered), http.StatusUnauthorized, auth.MessageInvalidToken, auth.StateTokenRejected},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, auth.MessageInvalidToken, auth.StateTokenRejected},
		{"valid", "Bearer " + valid, http.StatusCreated, "", auth.StateAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			r := gatedRouter(t, codec, m)

			w := doRequest(r, http.MethodPost, "/posts", tt.header)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.GateCounter(string(tt.state))))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errorBody(t, w))
				return
			}
			assert.JSONEq(t, `{"author":"u-1"}`, w.Body.String())
		})
	}
}

func TestGate_RequireAuthWithoutIdentity(t *testing.T) {
	r := gatedRouter(t, newCodec(t), nil)

	w := doRequest(r, http.MethodPost, "/unguarded", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, auth.MessageAuthenticationRequired, errorBody(t, w))
}

func TestGate_RejectionsDoNotLeakReason(t *testing.T) {
	codec := newCodec(t)
	other, err := auth.NewCodec([]byte("other"), auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	foreign, err := other.Issue(auth.NewClaims("u-1", "a@example.com", "", now))
	require.NoError(t, err)
	expired, err := codec.Issue(auth.NewClaims("u-1", "a@example.com", "", now.Add(-30*24*time.Hour)))
	require.NoError(t, err)

	r := gatedRouter(t, codec, nil)
	a := doRequest(r, http.MethodPost, "/posts", "Bearer "+foreign)
	b := doRequest(r, http.MethodPost, "/posts", "Bearer "+expired)

	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())
}
