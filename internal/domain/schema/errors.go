package schema

import (
	"errors"
)

// Sentinel kinds for row validation errors. These allow errors.Is/As from callers.
var (
	ErrMissingPeriod = errors.New("missing period")
	ErrUnknownDomain = errors.New("unknown domain value")
	ErrInvalidBand   = errors.New("invalid band value")
	ErrInvalidCount  = errors.New("invalid count value")
	ErrEmptyDataset  = errors.New("empty dataset")
)
