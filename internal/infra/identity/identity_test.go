package identity

import (
	"context"
	"errors"
	"testing"
)

func TestFromContext(t *testing.T) {
	p := FromContext{}

	if _, err := p.CurrentUserID(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated on a bare context", err)
	}

	ctx := WithUserID(context.Background(), "u1")
	uid, err := p.CurrentUserID(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if uid != "u1" {
		t.Fatalf("uid = %q, want u1", uid)
	}
}

func TestStatic(t *testing.T) {
	uid, err := Static("u9").CurrentUserID(context.Background())
	if err != nil || uid != "u9" {
		t.Fatalf("got %q %v, want u9", uid, err)
	}
	if _, err := Static("").CurrentUserID(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated for empty static user", err)
	}
}
