package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/pkg/auth"
)

// identityKey is the gin context key the verified identity is stored under.
const identityKey = "identity"

// AuthMiddleware verifies identity-provider tokens on protected routes.
type AuthMiddleware struct {
	verifier *auth.Verifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier *auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireIdentity validates the bearer token and attaches the identity
// context to the request. Handlers retrieve it with IdentityFromContext and
// pass it explicitly into service calls.
func (m *AuthMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
			))
			return
		}

		identity, err := m.verifier.Verify(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(code, "Invalid or expired token"),
			))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalIdentity attaches the identity when a valid bearer token is
// present and lets the request through either way. Read endpoints use it to
// personalize responses for authenticated callers.
func (m *AuthMiddleware) OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err == nil {
			if identity, err := m.verifier.Verify(tokenString); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity attached by RequireIdentity.
func IdentityFromContext(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok
}
