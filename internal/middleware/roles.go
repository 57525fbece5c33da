// File: internal/middleware/roles.go
package middleware

import (
	"fmt"

	"realestate_backend/internal/common"

	"github.com/gin-gonic/gin"
)

// RoleAuthMiddleware creates a middleware to check if the authenticated user
// has one of the required roles. Role membership is necessary but not
// sufficient: per-resource ownership checks stay inside the operations.
func RoleAuthMiddleware(allowedRoles ...common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr := GetIdentityFromContext(c)
		if usr == nil {
			// Should not happen if AuthMiddleware ran successfully.
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User identity not found in context."))
			return
		}
		if !usr.Role.IsValid() {
			common.RespondWithError(c, common.ErrForbidden.WithDetails(fmt.Sprintf("Account has an unrecognized role %q.", usr.Role)))
			return
		}

		if !usr.Role.OneOf(allowedRoles...) {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
