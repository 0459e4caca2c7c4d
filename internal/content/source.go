// Package content reads raw post records from a source (files, SQLite or a
// git repository), decodes them into posts and builds the post index.
package content

import (
	"context"
)

// Record is one raw post as read from a source, before decoding.
type Record struct {
	// Key is the default post ID, derived from the file name or row key.
	Key string
	// Path locates the record inside its source, for logs and reports.
	Path   string
	Fields map[string]any
	Body   []byte
	// Err is set when the record could not be parsed at all.
	Err error
}

// Source enumerates raw records. Records returns an error only when the
// source as a whole cannot be read; per-record problems travel in Record.Err.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]Record, error)
}
