// Package qrcode renders scan payloads into QR code images, either as raw
// PNG bytes or as a data-URI string that can be embedded directly into HTML
// email bodies.
//
// The package is a thin wrapper around github.com/skip2/go-qrcode that adds
// input validation, error-correction level selection, and a content-size
// guard: payloads are capped at 512 bytes, far below the symbol's binary
// capacity, so rendering never fails on size in practice.
//
// Render failures are expected to be treated as recoverable by callers —
// issuance continues without an image rather than aborting.
package qrcode
