package redemption

import "errors"

var (
	// ErrTokenNotFound is returned when a token string matches no record.
	ErrTokenNotFound = errors.New("token not found")
	// ErrDuplicateToken is returned when the store's uniqueness constraint
	// rejects a new token at commit time.
	ErrDuplicateToken = errors.New("token already exists")
	// ErrAlreadyUsed is returned by MarkUsed when used_at is already set.
	ErrAlreadyUsed = errors.New("token already used")
	// ErrNoActiveToken is returned when an owner has no token on record.
	ErrNoActiveToken = errors.New("owner has no token")
	// ErrInvalidRecord is returned when a record fails basic field validation.
	ErrInvalidRecord = errors.New("invalid token record")
)
