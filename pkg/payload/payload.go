package payload

import (
	"encoding/json"
	"errors"
	"time"
)

// Version1 is the only payload schema currently defined:
// {"v":1,"token":"...","issued_at":"RFC3339","meta":{...}}.
const Version1 = 1

// Payload is the decoded content of a scanned QR code.
type Payload struct {
	Version  int               `json:"v"`
	Token    string            `json:"token"`
	IssuedAt string            `json:"issued_at"`
	Metadata map[string]string `json:"meta,omitempty"`
}

// IssuedAtTime parses the issued_at field. The raw string is kept on the
// struct so callers can compare it byte-for-byte against the stored value.
func (p Payload) IssuedAtTime() (time.Time, error) {
	return time.Parse(time.RFC3339, p.IssuedAt)
}

// Encode serializes a version-1 payload. IssuedAt is truncated to whole
// seconds and rendered as RFC3339 so encode/decode round-trips are exact.
func Encode(token string, issuedAt time.Time, metadata map[string]string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	p := Payload{
		Version:  Version1,
		Token:    token,
		IssuedAt: issuedAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		Metadata: metadata,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a scanned payload string. Malformed input yields
// ErrInvalidFormat; a syntactically valid payload with an unrecognized
// version yields ErrUnknownVersion so callers never consume a schema they do
// not understand. Decode has no side effects.
func Decode(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, errors.Join(ErrInvalidFormat, err)
	}
	if p.Version != Version1 {
		return Payload{}, ErrUnknownVersion
	}
	if p.Token == "" {
		return Payload{}, ErrMissingToken
	}
	return p, nil
}
