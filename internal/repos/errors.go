package repos

import "errors"

var (
	// ErrInsufficientStock signals a stock decrement that would go negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrVersionConflict signals a compare-and-swap write that lost to a
	// concurrent update; callers re-read and retry.
	ErrVersionConflict = errors.New("version conflict")
)
