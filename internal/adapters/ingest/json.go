package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"capsight/internal/domain/schema"
)

// supportedSchemaVersion is the only envelope version accepted.
const supportedSchemaVersion = "1.0"

// envelope is the optional JSON wrapper around the row array.
type envelope struct {
	SchemaVersion string             `json:"schema_version"`
	GeneratedAt   string             `json:"generated_at"`
	Units         string             `json:"units"`
	Rows          []schema.Candidate `json:"rows"`
}

// parseJSON accepts either a bare array of row objects or an envelope
// {schema_version: "1.0", rows: [...]}. Both route to the same row-level
// validation.
func parseJSON(data []byte) ([]schema.Row, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrEmptyInput)
	}

	var candidates []schema.Candidate
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if env.SchemaVersion != supportedSchemaVersion {
			return nil, fmt.Errorf("%w: %q (expected %q)", ErrUnsupportedSchemaVersion, env.SchemaVersion, supportedSchemaVersion)
		}
		candidates = env.Rows
	default:
		return nil, fmt.Errorf("%w: expected an array of rows or a rows envelope", ErrInvalidJSON)
	}

	return schema.ValidateAll(candidates)
}
