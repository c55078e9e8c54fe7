package smartsync

import "context"

// Store is the remote tabular store boundary. Row and column identifiers
// are opaque store-assigned integers; page numbers are 1-based. A page or
// pageSize of 0 requests the whole sheet in one response.
type Store interface {
	// GetSheet retrieves one page of a sheet.
	GetSheet(ctx context.Context, id string, page, pageSize int) (*Sheet, error)

	// GetReport retrieves one page of a report, including its source sheets.
	GetReport(ctx context.Context, id string, page, pageSize int) (*Report, error)

	// UpdateRows submits one batch of row updates and returns the number of
	// rows the store reports as modified.
	UpdateRows(ctx context.Context, sheetID string, rows []RowUpdate) (int, error)

	// AddRows submits one batch of row inserts (appended at the end of the
	// sheet) and returns the number of rows created.
	AddRows(ctx context.Context, sheetID string, rows []RowInsert) (int, error)

	// DeleteRows removes the identified rows. Callers are responsible for
	// honouring the store's per-call batch limit.
	DeleteRows(ctx context.Context, sheetID string, rowIDs []int64) error
}

// TableSource supplies an input dataset from the host workflow side.
type TableSource interface {
	LoadDataset(ctx context.Context) (*Dataset, error)
}

// TableSink receives a typed table read from the remote store.
type TableSink interface {
	SaveTable(ctx context.Context, table *Table) error
}
