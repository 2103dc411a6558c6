package notes

import (
	"errors"
)

// Sentinel kinds for notes store errors.
var (
	ErrOpenStore     = errors.New("open notes store failed")
	ErrPersistNotes  = errors.New("persist notes failed")
	ErrInvalidImport = errors.New("invalid notes import")
)
