package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoDataset             = errors.New("no dataset loaded")
	ErrUploadTooLarge        = errors.New("upload too large")
	ErrReadFailure           = errors.New("could not read the dataset file")
	ErrInvalidViewMode       = errors.New("invalid view mode")
	ErrInvalidInterpretation = errors.New("invalid interpretation mode")
	ErrUnknownContext        = errors.New("unknown context tag")
)
