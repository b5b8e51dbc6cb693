// Package auth carries the request identity through context.
//
// The core never stores an identity beyond the current operation; writes read
// it from the context at the moment they run and fail with an
// authentication-required error when it is absent.
package auth

import "context"

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserFrom extracts the authenticated user id, if any.
func UserFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
