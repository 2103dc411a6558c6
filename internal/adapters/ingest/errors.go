package ingest

import (
	"errors"
)

// Sentinel kinds for ingestion errors. These allow errors.Is/As from callers.
var (
	ErrUnsupportedFileType      = errors.New("unsupported file type")
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")
	ErrInvalidJSON              = errors.New("invalid JSON")
	ErrMissingColumn            = errors.New("missing required column")
	ErrEmptyInput               = errors.New("empty input")
)
