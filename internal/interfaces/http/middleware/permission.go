package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// RequirePermission lets the request through when the caller holds permission.
// Anonymous callers get 401 and authenticated ones without it get 403.
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission requires at least one of permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return requireCheck(permissions, func(p identity.Principal) bool {
		for _, perm := range permissions {
			if p.Can(perm) {
				return true
			}
		}
		return false
	})
}

// RequireAllPermissions requires every one of permissions
func RequireAllPermissions(permissions ...string) gin.HandlerFunc {
	return requireCheck(permissions, func(p identity.Principal) bool {
		for _, perm := range permissions {
			if !p.Can(perm) {
				return false
			}
		}
		return true
	})
}

// RequireStaff admits staff users only
func RequireStaff() gin.HandlerFunc {
	return requireCheck([]string{"staff"}, func(p identity.Principal) bool { return p.IsStaff })
}

func requireCheck(required []string, allowed func(identity.Principal) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if !p.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if !allowed(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"You do not have permission to perform this action: "+strings.Join(required, ", "),
				GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// HasPermission reports whether the caller holds permission, for checks
// that depend on the resource being loaded
func HasPermission(c *gin.Context, permission string) bool {
	return GetPrincipal(c).Can(permission)
}
