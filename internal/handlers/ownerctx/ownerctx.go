// Package ownerctx carries the acting owner's id through the request
// context. Authentication itself happens upstream at the identity
// proxy; this core only trusts the id it forwarded.
package ownerctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

func NewContext(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, ownerID)
}

func FromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return ownerID, ok
}
