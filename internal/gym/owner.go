package gym

import "context"

type ownerCtxKey struct{}

// WithOwner stores the authenticated owner id on the request context.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerCtxKey{}, ownerID)
}

func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerCtxKey{}).(string)
	return ownerID, ok && ownerID != ""
}
