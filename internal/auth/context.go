package auth

import (
	"context"

	"github.com/straye-as/elevator-api/internal/domain"
)

// Authentication methods recorded on the user context
const (
	AuthTypeAPIKey = "api_key"
	AuthTypeBasic  = "basic"
	AuthTypeJWT    = "jwt"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uint
	Username    string
	DisplayName string
	Email       string
	Role        domain.UserRole
	AuthType    string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// IsAdmin reports whether the user may manage accounts
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(domain.UserRoleAdmin)
}

// IsSystem reports whether the request was authenticated with the API key
func (u *UserContext) IsSystem() bool {
	return u.AuthType == AuthTypeAPIKey
}

// NewUserContext builds the context for a stored user
func NewUserContext(user *domain.User, authType string) *UserContext {
	return &UserContext{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Email:       user.Email,
		Role:        user.Role,
		AuthType:    authType,
	}
}

// systemUser is the identity behind x-api-key requests
func systemUser() *UserContext {
	return &UserContext{
		Username:    "system",
		DisplayName: "System",
		Email:       "system@elevator-api.local",
		Role:        domain.UserRoleAdmin,
		AuthType:    AuthTypeAPIKey,
	}
}
