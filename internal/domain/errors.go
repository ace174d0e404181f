package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the character service is unreachable
	ErrServerOffline = errors.New("character service is unreachable")

	// ErrEntitlementRequired indicates an unfiltered-content toggle was
	// attempted without eligibility
	ErrEntitlementRequired = errors.New("viewer is not entitled to unfiltered content")

	// ErrEntryNotFound indicates the requested entry is not materialized
	ErrEntryNotFound = errors.New("entry is not in the feed window")
)

// BoundsError reports an axis index outside its valid range. It is a
// programming error, never shown to the user.
type BoundsError struct {
	Axis  string // "entry" or "image"
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Axis, e.Index, e.Len)
}
