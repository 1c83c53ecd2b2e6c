package orderconfirm

import (
	"context"

	"github.com/google/uuid"

	"github.com/redeemkit/redeemkit/pkg/redemption"
)

// Directory is the module's window into the sales-order system. Order
// persistence and the order state machine live outside this repository; the
// module only reads what it needs to issue and verify confirmation codes.
type Directory interface {
	redemption.OwnerDirectory

	// CustomerEmail returns the address the QR code is delivered to, or
	// ok=false when the order has no reachable customer.
	CustomerEmail(ctx context.Context, orderID uuid.UUID) (addr string, ok bool, err error)

	// Reference returns the order's human-readable reference, e.g. "SO0042".
	Reference(ctx context.Context, orderID uuid.UUID) (string, error)
}
