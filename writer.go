package smartsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Writer reconciles an input dataset against a remote sheet and issues the
// resulting batched mutations. One Write call is one request-scoped pass:
// the sheet snapshot is fetched fresh, decisions are made against it, and
// nothing is cached across passes.
type Writer struct {
	store  Store
	config WriterConfig
	logger *slog.Logger
}

// NewWriter creates a Writer over the given remote store.
func NewWriter(store Store, config *WriterConfig) (*Writer, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := *config
	if cfg.DeleteBatchSize <= 0 {
		cfg.DeleteBatchSize = DefaultDeleteBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{store: store, config: cfg, logger: logger}, nil
}

// SyncResult reports the outcome of one reconciliation pass.
type SyncResult struct {
	PassID  uuid.UUID
	SheetID string

	Cleared int // rows removed by ClearFirst
	Matched int // input keys matched to a remote row
	Updated int // rows the store reported as modified
	Created int // rows the store reported as created
	Deleted int // orphan rows removed (only when RemoveOrphans is set)

	// SkippedNew counts unmatched input keys dropped because AddMissing is
	// off.
	SkippedNew int

	// Orphans lists remote rows with no input match, whether or not they
	// were deleted.
	Orphans []Orphan
}

// Write runs one reconciliation pass. Configuration errors (missing sheet,
// missing reference column, duplicate input keys) surface before any remote
// mutation. A rejected batch aborts the remaining steps of the pass with a
// *MutationError; batches that already succeeded are not rolled back.
func (w *Writer) Write(ctx context.Context, ds *Dataset) (*SyncResult, error) {
	passID := uuid.New()
	logger := w.logger.With("pass", passID.String(), "sheet", w.config.SheetID)

	sheet, err := w.store.GetSheet(ctx, w.config.SheetID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get target sheet: %w", err)
	}
	if sheet == nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, w.config.SheetID)
	}

	// Both reference column checks run before any deletion happens, even
	// with ClearFirst set.
	if !ds.HasColumn(w.config.ReferenceColumn) {
		return nil, fmt.Errorf("%w in input columns: %q", ErrColumnNotFound, w.config.ReferenceColumn)
	}
	if !sheet.MapColumns().HasTitle(w.config.ReferenceColumn) {
		return nil, fmt.Errorf("%w in target sheet columns: %q", ErrColumnNotFound, w.config.ReferenceColumn)
	}

	result := &SyncResult{PassID: passID, SheetID: w.config.SheetID}

	if w.config.ClearFirst {
		rowIDs := sheet.RowIDs()
		logger.Info("deleting all existing rows", "count", len(rowIDs))
		for _, batch := range chunkRowIDs(rowIDs, w.config.DeleteBatchSize) {
			if err := w.store.DeleteRows(ctx, w.config.SheetID, batch); err != nil {
				return nil, fmt.Errorf("failed to clear sheet: %w", err)
			}
		}
		result.Cleared = len(rowIDs)

		sheet, err = w.store.GetSheet(ctx, w.config.SheetID, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to refetch sheet after clear: %w", err)
		}
	}

	plan, err := BuildPlan(ds, sheet, w.config.ReferenceColumn, w.config.AddMissing)
	if err != nil {
		return nil, err
	}

	newAction, oldAction := "SKIP", "SKIP"
	if w.config.AddMissing {
		newAction = "CREATE"
	}
	if w.config.RemoveOrphans {
		oldAction = "DELETE"
	}
	logger.Info("sync to be done",
		"matching", len(plan.Updates),
		"new", len(plan.Inserts)+plan.SkippedNew, "new_action", newAction,
		"old", len(plan.Orphans), "old_action", oldAction,
	)

	result.Matched = len(plan.Updates)
	result.SkippedNew = plan.SkippedNew
	result.Orphans = plan.Orphans

	if len(plan.Updates) > 0 {
		n, err := w.store.UpdateRows(ctx, w.config.SheetID, plan.Updates)
		if err != nil {
			return nil, err
		}
		result.Updated = n
	}
	logger.Info("matching rows updated", "count", result.Updated)

	if w.config.AddMissing {
		if len(plan.Inserts) > 0 {
			n, err := w.store.AddRows(ctx, w.config.SheetID, plan.Inserts)
			if err != nil {
				return nil, err
			}
			result.Created = n
		}
		logger.Info("new rows created", "count", result.Created)
	}

	if w.config.RemoveOrphans && len(plan.Orphans) > 0 {
		rowIDs := orphanRowIDs(plan.Orphans)
		for _, batch := range chunkRowIDs(rowIDs, w.config.DeleteBatchSize) {
			if err := w.store.DeleteRows(ctx, w.config.SheetID, batch); err != nil {
				return nil, err
			}
		}
		result.Deleted = len(rowIDs)
		logger.Info("orphan rows deleted", "count", result.Deleted)
	}

	return result, nil
}

// orphanRowIDs deduplicates orphan row ids, preserving order. A pathological
// remote row with several unmatched reference cells is listed once.
func orphanRowIDs(orphans []Orphan) []int64 {
	seen := make(map[int64]struct{}, len(orphans))
	ids := make([]int64, 0, len(orphans))
	for _, o := range orphans {
		if _, ok := seen[o.RowID]; ok {
			continue
		}
		seen[o.RowID] = struct{}{}
		ids = append(ids, o.RowID)
	}
	return ids
}

func chunkRowIDs(ids []int64, size int) [][]int64 {
	if size <= 0 || len(ids) == 0 {
		if len(ids) == 0 {
			return nil
		}
		return [][]int64{ids}
	}
	var batches [][]int64
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
