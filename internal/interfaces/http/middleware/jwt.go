package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	ActorKey      = "auth_actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Validator *auth.TokenValidator
	Logger    *zap.Logger
}

// Authenticate validates the bearer token and stores the caller as an
// order.Actor. Tokens carrying the configured admin role act as admin.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			rejectToken(c, log, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		tokenString, found := strings.CutPrefix(header, BearerPrefix)
		if !found || tokenString == "" {
			rejectToken(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.Validate(tokenString)
		if err != nil {
			rejectToken(c, log, err, "Token validation failed")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			rejectToken(c, log, err, "Token subject is not a user")
			return
		}

		actor := order.NewCustomerActor(userID)
		if cfg.Validator.IsAdmin(claims) {
			actor = order.NewAdminActor(userID)
		}
		c.Set(ClaimsKey, claims)
		SetActor(c, actor)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), userID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin rejects callers without operator rights. It must run after
// Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !actor.IsStaff() {
			abortWithCode(c, dto.ErrCodeForbidden, "Administrator access required")
			return
		}
		c.Next()
	}
}

func rejectToken(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortWithCode(c, dto.ErrCodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidSubject):
		abortWithCode(c, dto.ErrCodeTokenInvalid, "Invalid token")
	default:
		abortWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
	}
}

// SetActor stores the acting principal on the gin context
func SetActor(c *gin.Context, actor order.Actor) {
	c.Set(ActorKey, actor)
}

// GetActor retrieves the principal stored by Authenticate
func GetActor(c *gin.Context) (order.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return order.Actor{}, false
	}
	actor, ok := v.(order.Actor)
	return actor, ok
}

// GetClaims retrieves the validated token claims
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
