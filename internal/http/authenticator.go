package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"store-api/internal/auth"
	"store-api/internal/service"
)

const bearerPrefix = "Bearer "

// TokenVerifier validates a token and returns its subject.
type TokenVerifier interface {
	Verify(token string, now time.Time) (string, error)
}

// IdentityResolver loads the authorities of a verified subject.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (auth.Identity, error)
}

// Authenticator runs once per request ahead of routing. It attaches an
// identity when a valid bearer token is presented and otherwise lets the
// request continue anonymously; it never rejects a request itself.
type Authenticator struct {
	tokens     TokenVerifier
	identities IdentityResolver
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewAuthenticator(tokens TokenVerifier, identities IdentityResolver, logger logrus.FieldLogger) *Authenticator {
	return &Authenticator{
		tokens:     tokens,
		identities: identities,
		logger:     logger,
		now:        time.Now,
	}
}

func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := a.authenticate(c); ok {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (auth.Identity, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return auth.Identity{}, false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return auth.Identity{}, false
	}

	subject, err := a.tokens.Verify(token, a.now())
	if err != nil {
		a.reject(c, auth.TokenFailureReason(err), nil)
		return auth.Identity{}, false
	}

	id, err := a.identities.ResolveIdentity(c.Request.Context(), subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			a.reject(c, "unknown_subject", nil)
		} else {
			a.reject(c, "lookup_failed", err)
		}
		return auth.Identity{}, false
	}
	return id, true
}

func (a *Authenticator) reject(c *gin.Context, reason string, err error) {
	entry := a.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"path":       c.Request.URL.Path,
		"reason":     reason,
	})
	if err != nil {
		entry.WithError(err).Warn("token accepted but identity lookup failed")
		return
	}
	entry.Debug("bearer token rejected")
}

// requireIdentity enforces the access policy after authentication ran.
func requireIdentity(policy *auth.AccessPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, ok := auth.IdentityFrom(c.Request.Context())
		if !policy.IsAllowed(c.Request.URL.Path, ok) {
			c.Header("WWW-Authenticate", `Bearer realm="store"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
