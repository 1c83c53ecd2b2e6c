// Package pickup is the in-store pickup (buy online, pick up in store)
// token domain: when a store-pickup order becomes ready for collection, a
// single-use QR is minted and emailed to the customer; scanning it at the
// counter validates the picking exactly once.
//
// Unlike the order-confirmation domain, the scan payload is a plain verify
// URL so any phone camera resolves it, and no presenting principal is
// checked: the scan happens on staff hardware, and possession of the emailed
// code is the credential.
package pickup
