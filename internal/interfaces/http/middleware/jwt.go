package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey    = "jwt_claims"
	JWTPrincipalKey = "jwt_principal"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; without it revoked tokens stay valid until they expire
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// OptionalJWT authenticates the caller when a bearer token is sent and lets
// anonymous requests through. A token that is sent but invalid, expired or
// revoked is rejected with 401 so clients know to refresh.
func OptionalJWT(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, log, auth.ErrInvalidToken)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}
		if cfg.Blacklist != nil {
			revoked, err := isRevoked(c, cfg.Blacklist, claims)
			if err != nil {
				// revocation checks fail open
				log.Error("Failed to check token revocation",
					zap.String("jti", claims.ID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, log, auth.ErrTokenRevoked)
				return
			}
		}

		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, log, auth.ErrInvalidClaims)
			return
		}
		c.Set(JWTClaimsKey, claims)
		c.Set(JWTPrincipalKey, identity.Principal{
			UserID:      userID,
			Username:    claims.Username,
			IsStaff:     claims.IsStaff,
			Permissions: claims.Permissions,
		})
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

func isRevoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims) (bool, error) {
	ctx := c.Request.Context()
	if claims.ID != "" {
		revoked, err := blacklist.IsRevoked(ctx, claims.ID)
		if err != nil || revoked {
			return revoked, err
		}
	}
	return blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
}

// RequireAuth rejects anonymous callers with 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		message = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidTokenType):
		message = "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}
	log.Debug("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetPrincipal returns the authenticated caller, or the anonymous zero value
func GetPrincipal(c *gin.Context) identity.Principal {
	if v, ok := c.Get(JWTPrincipalKey); ok {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	return identity.Principal{}
}

// GetClaims returns the validated access token claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the caller's user id, or uuid.Nil when anonymous
func GetUserID(c *gin.Context) uuid.UUID {
	return GetPrincipal(c).UserID
}
