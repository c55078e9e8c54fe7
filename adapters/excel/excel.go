package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	smartsync "github.com/tabwise/go-smartsync"
)

// Adapter reads input datasets from and writes result tables to a local
// xlsx file. It implements the smartsync.TableSource and
// smartsync.TableSink interfaces.
type Adapter struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a new Excel adapter with the given configuration
func New(config *Config) (*Adapter, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Adapter{
		config: &configCopy,
	}, nil
}

// LoadDataset reads the worksheet into an input dataset. The first row is
// the column header; cell text is parsed as number, then bool, then kept
// as text.
func (a *Adapter) LoadDataset(ctx context.Context) (*smartsync.Dataset, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := excelize.OpenFile(a.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetIndex, err := f.GetSheetIndex(a.config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if sheetIndex == -1 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, a.config.SheetName)
	}

	rows, err := f.GetRows(a.config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) == 0 {
		return &smartsync.Dataset{}, nil
	}

	// First row is the column header
	columns := rows[0]

	dataset := &smartsync.Dataset{
		Columns: columns,
		Records: make([]*smartsync.Record, 0, len(rows)-1),
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue // Skip empty rows
		}

		record := &smartsync.Record{
			Values: make(map[string]smartsync.Value),
		}

		for j, value := range row {
			if j < len(columns) && columns[j] != "" {
				record.Values[columns[j]] = parseCell(value)
			}
		}

		dataset.Records = append(dataset.Records, record)
	}

	return dataset, nil
}

// SaveTable writes a read result to the worksheet, header row first.
func (a *Adapter) SaveTable(ctx context.Context, table *smartsync.Table) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := a.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Title
	}
	if err := f.SetSheetRow(a.config.SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}

		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(a.config.SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(a.config.FilePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// SaveDataset writes an input dataset back to the worksheet, for round
// trips that stage data locally between passes.
func (a *Adapter) SaveDataset(ctx context.Context, dataset *smartsync.Dataset) error {
	rows := make([][]smartsync.Value, len(dataset.Records))
	for i, rec := range dataset.Records {
		row := make([]smartsync.Value, len(dataset.Columns))
		for j, col := range dataset.Columns {
			row[j] = rec.Get(col)
		}
		rows[i] = row
	}
	return a.SaveTable(ctx, smartsync.NewTable(dataset.Columns, rows))
}

func (a *Adapter) openOrCreate() (*excelize.File, error) {
	dir := filepath.Dir(a.config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var f *excelize.File
	if _, err := os.Stat(a.config.FilePath); err == nil {
		f, err = excelize.OpenFile(a.config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
	} else {
		f = excelize.NewFile()
	}

	sheetIndex, err := f.GetSheetIndex(a.config.SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}
	if sheetIndex == -1 {
		index, err := f.NewSheet(a.config.SheetName)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		f.SetActiveSheet(index)

		// Delete default sheet if it exists and is not our sheet
		if defaultSheet := f.GetSheetName(0); defaultSheet != a.config.SheetName {
			_ = f.DeleteSheet(defaultSheet)
		}
	}

	return f, nil
}

// parseCell converts worksheet cell text to a Value: number first, then
// bool, then text.
func parseCell(value string) smartsync.Value {
	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		if intVal := int64(floatVal); float64(intVal) == floatVal {
			return smartsync.Int(intVal)
		}
		return smartsync.Float(floatVal)
	}
	if value == "true" || value == "TRUE" {
		return smartsync.Bool(true)
	}
	if value == "false" || value == "FALSE" {
		return smartsync.Bool(false)
	}
	return smartsync.Text(value)
}

// cellValue converts a Value to the native type excelize writes.
func cellValue(v smartsync.Value) interface{} {
	switch v.Kind() {
	case smartsync.KindNull:
		return ""
	case smartsync.KindBool:
		return v.Bool()
	case smartsync.KindInt:
		i, _ := v.Int()
		return i
	case smartsync.KindFloat:
		f, _ := v.Float()
		return f
	default:
		return v.String()
	}
}
