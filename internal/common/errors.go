// Package common defines sentinel errors shared between the console layer
// and the storage layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// Journal-level errors.
	ErrorJournalCorrupt = errors.New("journal corrupt")
)
