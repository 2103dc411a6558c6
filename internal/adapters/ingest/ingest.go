// Package ingest converts uploaded file contents into validated rows.
// Dispatch is by file extension, never content sniffing; the caller is
// responsible for reading the file into memory. Parsing is a pure
// text-to-records transform with fail-fast, all-or-nothing semantics.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"capsight/internal/domain/schema"
)

// Accepted file extensions.
const (
	extCSV  = ".csv"
	extJSON = ".json"
)

// Parse converts raw file contents into validated rows, dispatching on the
// lowercased extension of filename. The first parse or validation failure
// aborts the whole load; no partial dataset is ever returned.
func Parse(filename string, data []byte) ([]schema.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extCSV:
		return parseCSV(data)
	case extJSON:
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q (accepted: %s, %s)", ErrUnsupportedFileType, filename, extCSV, extJSON)
	}
}
