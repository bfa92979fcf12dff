package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = contextKey("userID")
	identityKey = contextKey("identity")
)

// Identity is the authenticated caller as read from token claims.
type Identity struct {
	UserID   string
	Email    string
	Username string
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.UserID)
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx returns the identity stored by the auth middleware, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	return userID, ok
}
