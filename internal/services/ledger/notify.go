package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Actors recorded in the status audit log besides owner ids.
const (
	ActorWebhook = "webhook"
)

// Invalidator drops derived read models for an owner after a ledger write
// commits.
type Invalidator interface {
	Invalidate(ctx context.Context, owner uuid.UUID)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, uuid.UUID) {}

// OrNop returns inv, or an Invalidator that does nothing when inv is nil.
func OrNop(inv Invalidator) Invalidator {
	if inv == nil {
		return nopInvalidator{}
	}
	return inv
}
