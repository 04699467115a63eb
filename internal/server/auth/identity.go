package auth

import "context"

// Identity is the caller of a request as proven by a verified token. The
// zero value means "nobody"; a non-zero Identity can only be obtained from
// TokenService verification.
type Identity struct {
	userID int64
}

// UserID returns the authenticated user's ID.
func (i Identity) UserID() int64 { return i.userID }

// IsZero reports whether i carries no user.
func (i Identity) IsZero() bool { return i.userID == 0 }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}
