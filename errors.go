package staffdb

import "errors"

var (
	ErrEmptyID             = errors.New("staffdb: empty record id")
	ErrDuplicateID         = errors.New("staffdb: duplicate record id")
	ErrNotFound            = errors.New("staffdb: record not found")
	ErrInvalidRating       = errors.New("staffdb: performance rating must be between 1 and 5")
	ErrNegativeFine        = errors.New("staffdb: fine must not be negative")
	ErrInvalidCompensation = errors.New("staffdb: base compensation must be a finite number")
	ErrUnknownCriterion    = errors.New("staffdb: unknown sort criterion")
	ErrUnknownOrder        = errors.New("staffdb: unknown sort order")
	ErrUnknownSubtype      = errors.New("staffdb: unknown record subtype")
)
