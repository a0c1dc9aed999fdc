package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// ContextClaimsKey is the gin context key holding the verified auth.Claims.
const ContextClaimsKey = "auth.claims"

// Gate turns bearer tokens into request identities.
type Gate struct {
	codec   *auth.Codec
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewGate(codec *auth.Codec, m *metrics.Metrics, l logging.Logger) *Gate {
	return &Gate{codec: codec, metrics: m, logger: l.With("module", "auth_gate")}
}

// Authenticate verifies the Authorization header. On success the claims are
// attached to the request context and the gin context; otherwise the request
// ends with 401 and a message that does not reveal why the token failed.
func (g *Gate) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, state, err := g.codec.Authenticate(c.GetHeader(common.AuthorizationHeaderName))
		g.metrics.ObserveGate(string(state))

		if err != nil {
			g.logger.Warn(c.Request.Context(), "request rejected",
				"state", state, "error", err, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.PublicMessage(err)})
			return
		}

		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromGin returns the claims Authenticate stored on c.
func ClaimsFromGin(c *gin.Context) (auth.Claims, error) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return auth.Claims{}, auth.ErrAuthenticationRequired
	}
	claims, ok := v.(auth.Claims)
	if !ok {
		return auth.Claims{}, auth.ErrAuthenticationRequired
	}
	return claims, nil
}

// RequireAuth only checks that an identity is attached. It must run after
// Authenticate.
func (g *Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireClaims(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.PublicMessage(err)})
			return
		}
		c.Next()
	}
}
