// Package identity is the consumed identity-provider boundary. The service
// does not authenticate users itself; the internal token gate plus the
// X-User-Id header stand in for the upstream auth system.
package identity

import (
	"context"
	"errors"
)

var ErrNotAuthenticated = errors.New("no authenticated user")

type ctxKey struct{}

// WithUserID returns a context carrying the acting user.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

// Provider resolves the acting user for provenance stamping.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// FromContext reads the user the auth middleware stored on the request
// context. Commits are blocked when it is absent.
type FromContext struct{}

func (FromContext) CurrentUserID(ctx context.Context) (string, error) {
	uid, _ := ctx.Value(ctxKey{}).(string)
	if uid == "" {
		return "", ErrNotAuthenticated
	}
	return uid, nil
}

// Static always reports the same user; tests use it.
type Static string

func (s Static) CurrentUserID(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}
