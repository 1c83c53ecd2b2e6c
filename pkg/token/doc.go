// Package token generates opaque, URL-safe secret tokens from a
// cryptographically secure random source.
//
// Tokens are raw random bytes encoded with base64.RawURLEncoding, so they can
// travel inside URLs and QR payloads without escaping. The package never uses
// a seedable source.
//
// # Usage
//
//	t, err := token.Generate(token.DefaultByteLength)
//	if err != nil {
//		// entropy source failure, treat as fatal
//	}
//
// When a store-level existence check is available, GenerateUnique performs a
// bounded best-effort collision check before the authoritative database
// uniqueness constraint takes over:
//
//	t, err := token.GenerateUnique(ctx, store.TokenExists, 16)
package token
