// Package orderconfirm is the order-confirmation token domain: when an
// order's payment settles, a single-use QR confirmation code is minted,
// emailed to the customer, and later redeemed exactly once at handover.
//
// The scan payload is the versioned JSON document from pkg/payload; the
// redemption engine additionally checks that the presenting principal is the
// order's customer, so a forwarded or leaked code cannot be redeemed by
// anyone else.
package orderconfirm
