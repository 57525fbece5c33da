// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"realestate_backend/internal/common"
	"realestate_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// IdentityKey is the context key for storing the authenticated identity
	IdentityKey = "identity"
)

// AuthMiddleware creates a Gin middleware that verifies the bearer token with
// the external identity provider and resolves the local account, provisioning
// it with the default role on first login.
func AuthMiddleware(verifier shared.TokenVerifier, userService shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		usr, wasCreated, err := userService.GetOrCreateFromFirebaseClaims(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to resolve local user for verified token", zap.Error(err), zap.String("uid", token.UID))
			common.RespondWithError(c, err)
			return
		}
		if wasCreated {
			logger.Info("Provisioned new account on first login",
				zap.String("uid", usr.UID),
				zap.String("email", usr.Email),
			)
		}

		c.Set(IdentityKey, usr)

		logger.Debug("User authenticated successfully",
			zap.String("uid", usr.UID),
			zap.String("email", usr.Email),
			zap.String("role", usr.Role.String()),
		)

		c.Next()
	}
}

// GetIdentityFromContext retrieves the authenticated user from the Gin context.
// Returns nil if the auth middleware did not run.
func GetIdentityFromContext(c *gin.Context) *shared.User {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	usr, ok := val.(*shared.User)
	if !ok {
		return nil
	}
	return usr
}

// GetUserUIDFromContext retrieves the authenticated user's uid, or "".
func GetUserUIDFromContext(c *gin.Context) string {
	if usr := GetIdentityFromContext(c); usr != nil {
		return usr.UID
	}
	return ""
}

// GetUserRoleFromContext retrieves the authenticated user's role, or "".
func GetUserRoleFromContext(c *gin.Context) common.Role {
	if usr := GetIdentityFromContext(c); usr != nil {
		return usr.Role
	}
	return ""
}
