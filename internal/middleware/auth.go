package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/auth"
	"github.com/kmazurek/ticket-system-api/internal/constants"
	"github.com/kmazurek/ticket-system-api/internal/database"
	apierrors "github.com/kmazurek/ticket-system-api/internal/errors"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/permissions"
)

// WithPrincipal resolves the request's principal from either the session or
// a Bearer token and stores it in the context. Requests without usable
// credentials proceed as the anonymous principal; the middleware never
// aborts.
func WithPrincipal(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveUserID(c, tokens)
		if !ok {
			c.Next()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			c.Next()
			return
		}
		if !user.IsActive {
			c.Next()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyPrincipal, permissions.NewPrincipal(user.ID, user.IsSuperuser, user.IsStaff))
		c.Next()
	}
}

// RequireAuth aborts with 401 when the request carries no authenticated
// principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if !p.Authenticated() {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the request principal from context. Requests
// without one are anonymous.
func GetPrincipal(c *gin.Context) permissions.Principal {
	v, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return permissions.Anonymous
	}
	p, ok := v.(permissions.Principal)
	if !ok {
		return permissions.Anonymous
	}
	return p
}

// GetUserID retrieves the current user ID from context.
func GetUserID(c *gin.Context) (uint64, bool) {
	p := GetPrincipal(c)
	if !p.Authenticated() {
		return 0, false
	}
	return p.ID, true
}

func resolveUserID(c *gin.Context, tokens *auth.TokenManager) (uint64, bool) {
	// Session cookie first, Bearer token second.
	session := sessions.Default(c)
	if v := session.Get(constants.ContextKeyUserID); v != nil {
		switch id := v.(type) {
		case uint64:
			return id, true
		case uint:
			return uint64(id), true
		case int:
			if id < 0 {
				return 0, false
			}
			return uint64(id), true
		}
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, false
	}
	raw, err := auth.ExtractToken(header)
	if err != nil {
		return 0, false
	}
	claims, err := tokens.ValidateToken(raw)
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}
