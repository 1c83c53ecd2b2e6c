// Package payload encodes and decodes the string carried inside a QR code.
//
// The payload is a small versioned JSON document binding a secret token to
// its issuance timestamp. Version is explicit so future schema changes can be
// introduced without breaking already-printed codes; decoding an unknown
// version fails with ErrUnknownVersion rather than guessing.
//
// Encoding is deterministic: fields are emitted in struct order and
// issued_at is truncated to whole seconds, so
// Decode(Encode(token, ts, meta)) always returns the original values.
//
// Errors are sentinel values comparable with errors.Is:
//
//   - ErrInvalidFormat  – input is not parseable as a payload at all
//   - ErrUnknownVersion – well-formed but from an unsupported schema version
//   - ErrMissingToken   – structurally valid but missing the token field
package payload
