package smartsheet

import (
	"encoding/json"

	smartsync "github.com/tabwise/go-smartsync"
)

// Wire shapes of the Smartsheet REST API. Only the fields the sync paths
// consume are modelled.

type sheetPayload struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	TotalRowCount int                  `json:"totalRowCount"`
	Columns       []columnPayload      `json:"columns"`
	Rows          []rowPayload         `json:"rows"`
	SourceSheets  []sourceSheetPayload `json:"sourceSheets,omitempty"`
}

type columnPayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type rowPayload struct {
	ID    int64         `json:"id"`
	Cells []cellPayload `json:"cells"`
}

type cellPayload struct {
	ColumnID int64       `json:"columnId"`
	Value    interface{} `json:"value,omitempty"`
}

type sourceSheetPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// rowWritePayload is one row of a bulk mutation request. The value field of
// its cells is never omitted: the empty string is the store's way of
// clearing a cell.
type rowWritePayload struct {
	ID       int64              `json:"id,omitempty"`
	ToBottom bool               `json:"toBottom,omitempty"`
	Cells    []cellWritePayload `json:"cells"`
}

type cellWritePayload struct {
	ColumnID int64       `json:"columnId"`
	Value    interface{} `json:"value"`
}

// resultPayload is the store's bulk-mutation response envelope.
type resultPayload struct {
	ResultCode int               `json:"resultCode"`
	Message    string            `json:"message"`
	Result     []json.RawMessage `json:"result"`
}

// errorPayload is the store's error envelope.
type errorPayload struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
	RefID     string `json:"refId"`
}

func (p *sheetPayload) toSheet() *smartsync.Sheet {
	sheet := &smartsync.Sheet{
		ID:            p.ID,
		Name:          p.Name,
		TotalRowCount: p.TotalRowCount,
		Columns:       make([]smartsync.Column, len(p.Columns)),
		Rows:          make([]smartsync.Row, len(p.Rows)),
	}
	for i, c := range p.Columns {
		sheet.Columns[i] = smartsync.Column{
			ID:    c.ID,
			Title: c.Title,
			Type:  smartsync.ColumnType(c.Type),
		}
	}
	for i, r := range p.Rows {
		row := smartsync.Row{
			ID:    r.ID,
			Cells: make([]smartsync.Cell, len(r.Cells)),
		}
		for j, c := range r.Cells {
			row.Cells[j] = smartsync.Cell{
				ColumnID: c.ColumnID,
				Value:    smartsync.FromAny(c.Value),
			}
		}
		sheet.Rows[i] = row
	}
	return sheet
}

func (p *sheetPayload) toReport() *smartsync.Report {
	report := &smartsync.Report{Sheet: *p.toSheet()}
	for _, s := range p.SourceSheets {
		report.SourceSheets = append(report.SourceSheets, smartsync.SourceSheet{
			ID:   s.ID,
			Name: s.Name,
		})
	}
	return report
}

func updatePayload(rows []smartsync.RowUpdate) []rowWritePayload {
	payload := make([]rowWritePayload, len(rows))
	for i, row := range rows {
		payload[i] = rowWritePayload{
			ID:    row.RowID,
			Cells: writeCells(row.Cells),
		}
	}
	return payload
}

func insertPayload(rows []smartsync.RowInsert) []rowWritePayload {
	payload := make([]rowWritePayload, len(rows))
	for i, row := range rows {
		payload[i] = rowWritePayload{
			ToBottom: true,
			Cells:    writeCells(row.Cells),
		}
	}
	return payload
}

func writeCells(cells []smartsync.NewCell) []cellWritePayload {
	out := make([]cellWritePayload, len(cells))
	for i, c := range cells {
		out[i] = cellWritePayload{ColumnID: c.ColumnID, Value: c.Value}
	}
	return out
}
