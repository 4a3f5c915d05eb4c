// Package utils holds the small helpers shared by the sync server and client:
// the authenticated user in a request context, JSON bodies over HTTP, body
// hashing, bearer tokens and HTTP client setup.
package utils

import (
	"context"
)

type userIDKey struct{}

// WithUserID returns a copy of ctx that carries the authenticated user.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserIDFromContext returns the user stored by [WithUserID]. Only a
// positive id counts as authenticated.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
