package smartsync

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultPageSize is the reader's fixed page size for row fetches.
	DefaultPageSize = 1000

	// DefaultDeleteBatchSize is the remote store's per-call limit on bulk
	// row deletion.
	DefaultDeleteBatchSize = 300
)

// ReaderConfig configures one read pass.
type ReaderConfig struct {
	// ID is the sheet or report identifier.
	ID string

	// IsReport selects the report endpoint instead of the sheet endpoint.
	IsReport bool

	// PageSize for row fetches (default: 1000).
	PageSize int

	// Logger for pass diagnostics (default: slog.Default()).
	Logger *slog.Logger
}

// Validate checks the configuration for a read pass.
func (c *ReaderConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("sheet or report id is required")
	}
	return nil
}

// WriterConfig configures one reconciliation pass.
type WriterConfig struct {
	// SheetID is the target sheet identifier.
	SheetID string

	// ReferenceColumn is the title of the column whose value identifies a
	// logical record across input and remote datasets. Case-sensitive.
	ReferenceColumn string

	// ClearFirst removes all remote rows before reconciling.
	ClearFirst bool

	// AddMissing appends input records whose key has no remote match.
	AddMissing bool

	// RemoveOrphans deletes remote rows whose key has no input match.
	// Orphans are always computed and reported; they are only deleted when
	// this is set.
	RemoveOrphans bool

	// DeleteBatchSize caps row ids per bulk-delete call (default: 300).
	DeleteBatchSize int

	// Logger for pass diagnostics (default: slog.Default()).
	Logger *slog.Logger
}

// Validate checks the configuration for a write pass.
func (c *WriterConfig) Validate() error {
	if c.SheetID == "" {
		return fmt.Errorf("sheet id is required")
	}
	if c.ReferenceColumn == "" {
		return fmt.Errorf("reference column is required")
	}
	return nil
}
