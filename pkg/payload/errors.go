package payload

import "errors"

var (
	ErrInvalidFormat  = errors.New("payload is not valid scan data")
	ErrUnknownVersion = errors.New("unsupported payload version")
	ErrMissingToken   = errors.New("payload token is missing")
)
