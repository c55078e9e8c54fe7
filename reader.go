package smartsync

import (
	"context"
	"fmt"
	"log/slog"
)

// Reader pages through a remote sheet or report and assembles a typed
// tabular result.
type Reader struct {
	store  Store
	config ReaderConfig
	logger *slog.Logger
}

// NewReader creates a Reader over the given remote store.
func NewReader(store Store, config *ReaderConfig) (*Reader, error) {
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
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{store: store, config: cfg, logger: logger}, nil
}

// ReadResult is the outcome of one read pass. SourceSheets is nil unless
// the source is a report.
type ReadResult struct {
	SourceName   string
	Table        *Table
	SourceSheets *Table
}

// Read fetches all rows of the configured sheet or report. A single-row
// probe page establishes the source name and the total row count; the rows
// themselves are then fetched at the configured page size.
func (r *Reader) Read(ctx context.Context) (*ReadResult, error) {
	probe, _, err := r.getPage(ctx, 1, 1)
	if err != nil {
		return nil, err
	}

	total := probe.TotalRowCount
	r.logger.Info("rows to be read", "source", probe.Name, "count", total)

	pages := (total-1)/r.config.PageSize + 1
	if pages < 1 {
		pages = 1
	}

	var rows [][]Value
	var last *Sheet
	var sources []SourceSheet
	for page := 1; page <= pages; page++ {
		sheet, srcs, err := r.getPage(ctx, page, r.config.PageSize)
		if err != nil {
			return nil, err
		}
		last = sheet
		sources = srcs

		for _, row := range sheet.Rows {
			rows = append(rows, alignCells(row, sheet.Columns))
		}
	}

	titles := make([]string, len(last.Columns))
	for i, c := range last.Columns {
		titles[i] = c.Title
	}

	result := &ReadResult{
		SourceName: probe.Name,
		Table:      NewTable(titles, rows),
	}

	if r.config.IsReport {
		srcRows := make([][]Value, len(sources))
		for i, s := range sources {
			srcRows[i] = []Value{Int(s.ID), Text(s.Name)}
		}
		result.SourceSheets = NewTable([]string{"Sheet ID", "Sheet Name"}, srcRows)
	}

	return result, nil
}

func (r *Reader) getPage(ctx context.Context, page, pageSize int) (*Sheet, []SourceSheet, error) {
	if r.config.IsReport {
		report, err := r.store.GetReport(ctx, r.config.ID, page, pageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get report page %d: %w", page, err)
		}
		return &report.Sheet, report.SourceSheets, nil
	}

	sheet, err := r.store.GetSheet(ctx, r.config.ID, page, pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sheet page %d: %w", page, err)
	}
	return sheet, nil, nil
}

// alignCells orders one row's cell values by the sheet's column order,
// filling columns with no cell with null.
func alignCells(row Row, columns []Column) []Value {
	byColumn := make(map[int64]Value, len(row.Cells))
	for _, cell := range row.Cells {
		byColumn[cell.ColumnID] = cell.Value
	}

	values := make([]Value, len(columns))
	for i, col := range columns {
		values[i] = byColumn[col.ID] // zero Value is null
	}
	return values
}
