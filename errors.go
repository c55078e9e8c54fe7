package smartsync

import (
	"errors"
	"fmt"
)

var (
	ErrNoCredentials  = errors.New("no access token available")
	ErrSheetNotFound  = errors.New("sheet not found")
	ErrColumnNotFound = errors.New("reference column not found")
	ErrDuplicateRef   = errors.New("duplicate reference value")
)

// MutationError is a batch update/insert/delete call rejected by the remote
// store. It carries the store's diagnostic payload as-is; rejected batches
// are not retried and earlier batches of the same pass are not rolled back.
type MutationError struct {
	Op      string // "update", "insert" or "delete"
	Status  int    // HTTP status returned by the store
	Code    int    // store-specific error code
	Message string
	RefID   string // store-side correlation id, when provided
}

func (e *MutationError) Error() string {
	if e.RefID != "" {
		return fmt.Sprintf("%s rejected by remote store: %s (code %d, status %d, refId %s)",
			e.Op, e.Message, e.Code, e.Status, e.RefID)
	}
	return fmt.Sprintf("%s rejected by remote store: %s (code %d, status %d)",
		e.Op, e.Message, e.Code, e.Status)
}
