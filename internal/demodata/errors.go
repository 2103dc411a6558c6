package demodata

import (
	"errors"
)

// Sentinel kinds for demo data errors.
var (
	ErrUnknownVariant = errors.New("unknown demo variant")
)
