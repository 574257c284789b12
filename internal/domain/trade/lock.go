package trade

import (
	"context"

	"github.com/google/uuid"
)

// OrderLocker serialises status changes of a single order across server
// instances. Lock returns ErrOrderBusy when the lock is held elsewhere.
type OrderLocker interface {
	Lock(ctx context.Context, tenantID, orderID uuid.UUID) (unlock func(context.Context) error, err error)
}
