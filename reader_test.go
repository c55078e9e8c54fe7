package smartsync

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePagedStore serves a fixed row set page by page, the way the remote
// store does.
type fakePagedStore struct {
	name     string
	columns  []Column
	rows     []Row
	sources  []SourceSheet
	isReport bool

	pages [][2]int // requested (page, pageSize) pairs
}

func (f *fakePagedStore) page(page, pageSize int) *Sheet {
	f.pages = append(f.pages, [2]int{page, pageSize})

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(f.rows) {
		start = len(f.rows)
	}
	if end > len(f.rows) {
		end = len(f.rows)
	}

	return &Sheet{
		ID:            1,
		Name:          f.name,
		TotalRowCount: len(f.rows),
		Columns:       f.columns,
		Rows:          f.rows[start:end],
	}
}

func (f *fakePagedStore) GetSheet(ctx context.Context, id string, page, pageSize int) (*Sheet, error) {
	if f.isReport {
		return nil, fmt.Errorf("is a report")
	}
	return f.page(page, pageSize), nil
}

func (f *fakePagedStore) GetReport(ctx context.Context, id string, page, pageSize int) (*Report, error) {
	if !f.isReport {
		return nil, fmt.Errorf("is a sheet")
	}
	return &Report{Sheet: *f.page(page, pageSize), SourceSheets: f.sources}, nil
}

func (f *fakePagedStore) UpdateRows(ctx context.Context, sheetID string, rows []RowUpdate) (int, error) {
	return 0, fmt.Errorf("read-only")
}

func (f *fakePagedStore) AddRows(ctx context.Context, sheetID string, rows []RowInsert) (int, error) {
	return 0, fmt.Errorf("read-only")
}

func (f *fakePagedStore) DeleteRows(ctx context.Context, sheetID string, rowIDs []int64) error {
	return fmt.Errorf("read-only")
}

func readerRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			ID: int64(i + 1),
			Cells: []Cell{
				{ColumnID: refColID, Value: Text(fmt.Sprintf("K%d", i))},
				{ColumnID: xColID, Value: Int(int64(i))},
			},
		}
	}
	return rows
}

func readerColumns() []Column {
	return []Column{
		{ID: refColID, Title: "ref", Type: ColumnTypeTextNumber},
		{ID: xColID, Title: "x", Type: ColumnTypeTextNumber},
	}
}

func TestReader_PagesThroughAllRows(t *testing.T) {
	store := &fakePagedStore{
		name:    "big sheet",
		columns: readerColumns(),
		rows:    readerRows(2500),
	}
	r, err := NewReader(store, &ReaderConfig{ID: "1"})
	require.NoError(t, err)

	result, err := r.Read(context.Background())
	require.NoError(t, err)

	require.Equal(t, "big sheet", result.SourceName)
	require.Len(t, result.Table.Rows, 2500)
	require.Nil(t, result.SourceSheets)

	// Probe page first, then full pages at the configured size.
	require.Equal(t, [][2]int{{1, 1}, {1, 1000}, {2, 1000}, {3, 1000}}, store.pages)
}

func TestReader_EmptySheet(t *testing.T) {
	store := &fakePagedStore{name: "empty", columns: readerColumns()}
	r, err := NewReader(store, &ReaderConfig{ID: "1"})
	require.NoError(t, err)

	result, err := r.Read(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Table.Rows)
	require.Equal(t, []string{"ref", "x"}, result.Table.Titles())
}

func TestReader_ReportSourceSheets(t *testing.T) {
	store := &fakePagedStore{
		name:     "weekly report",
		columns:  readerColumns(),
		rows:     readerRows(3),
		isReport: true,
		sources: []SourceSheet{
			{ID: 101, Name: "north"},
			{ID: 102, Name: "south"},
		},
	}
	r, err := NewReader(store, &ReaderConfig{ID: "9", IsReport: true})
	require.NoError(t, err)

	result, err := r.Read(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.SourceSheets)
	require.Equal(t, []string{"Sheet ID", "Sheet Name"}, result.SourceSheets.Titles())
	require.Equal(t, [][]Value{
		{Int(101), Text("north")},
		{Int(102), Text("south")},
	}, result.SourceSheets.Rows)
}

func TestReader_AlignsCellsByColumnOrder(t *testing.T) {
	// Cells arrive out of column order and with gaps; values line up with
	// the column list and gaps read as null.
	store := &fakePagedStore{
		name:    "sparse",
		columns: readerColumns(),
		rows: []Row{{
			ID:    1,
			Cells: []Cell{{ColumnID: xColID, Value: Int(7)}},
		}},
	}
	r, err := NewReader(store, &ReaderConfig{ID: "1"})
	require.NoError(t, err)

	result, err := r.Read(context.Background())
	require.NoError(t, err)

	require.Equal(t, [][]Value{{Null(), Int(7)}}, result.Table.Rows)
}

func TestNewReader_Validation(t *testing.T) {
	_, err := NewReader(nil, &ReaderConfig{ID: "1"})
	require.Error(t, err)

	_, err = NewReader(&fakePagedStore{}, &ReaderConfig{})
	require.Error(t, err)
}
