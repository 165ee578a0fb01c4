package erp

import (
	"errors"

	"erp-sync/core/session"
)

var (
	// ErrAuthentication means the ERP login failed or a fresh session was rejected.
	ErrAuthentication = session.ErrAuthentication
	// ErrConnectionExhausted means transport retries ran out.
	ErrConnectionExhausted = errors.New("connection retries exhausted")
	// ErrInvalidResponse means the ERP answered with a bad status or an undecodable body.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrDataNotFound means the requested reference does not exist.
	ErrDataNotFound = errors.New("data not found")
	// ErrInvalidIdentity means the reference exists but its record is unusable.
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Recoverable reports whether err only affects the item it was returned for.
func Recoverable(err error) bool {
	return errors.Is(err, ErrDataNotFound) || errors.Is(err, ErrInvalidIdentity)
}
