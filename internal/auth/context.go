package auth

import "net/http"

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyUserID is the key for the verified user ID in the context
	ContextKeyUserID ContextKey = "userID"
	// ContextKeyAuthenticated is the key for the authentication flag in the context
	ContextKeyAuthenticated ContextKey = "authenticated"
)

// GetUserID retrieves the authenticated user ID from the request context.
func GetUserID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// IsAuthenticated reports whether the request carried a valid bearer token.
func IsAuthenticated(r *http.Request) bool {
	ok, _ := r.Context().Value(ContextKeyAuthenticated).(bool)
	return ok
}
