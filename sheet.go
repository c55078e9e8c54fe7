package smartsync

// ColumnType is the remote store's column type enumeration.
type ColumnType string

const (
	ColumnTypeTextNumber  ColumnType = "TEXT_NUMBER"
	ColumnTypeCheckbox    ColumnType = "CHECKBOX"
	ColumnTypeDate        ColumnType = "DATE"
	ColumnTypeDateTime    ColumnType = "DATETIME"
	ColumnTypePicklist    ColumnType = "PICKLIST"
	ColumnTypeContactList ColumnType = "CONTACT_LIST"
	ColumnTypeDuration    ColumnType = "DURATION"
)

// Column is a remote sheet column. The identifier is store-assigned and
// opaque; the title is the only caller-meaningful identity.
type Column struct {
	ID    int64
	Title string
	Type  ColumnType
}

// Cell is a single remote cell. A null Value means the cell is unset, which
// is distinct from an empty string.
type Cell struct {
	ColumnID int64
	Value    Value
}

// Row is a remote sheet row. The identifier is store-assigned and stable
// across requests.
type Row struct {
	ID    int64
	Cells []Cell
}

// Sheet is a point-in-time snapshot of a remote sheet (or one page of it).
type Sheet struct {
	ID            int64
	Name          string
	TotalRowCount int
	Columns       []Column
	Rows          []Row
}

// SourceSheet identifies one sheet feeding a report.
type SourceSheet struct {
	ID   int64
	Name string
}

// Report is a remote report snapshot. It carries the same tabular shape as
// a sheet plus the sheets it draws from.
type Report struct {
	Sheet
	SourceSheets []SourceSheet
}

// ColumnMap is the bidirectional title/id mapping for a sheet's columns,
// built once per pass and passed explicitly between components.
type ColumnMap struct {
	idByTitle map[string]int64
	titleByID map[int64]string
	typeByID  map[int64]ColumnType
}

// MapColumns builds the ColumnMap for the sheet. Column titles are unique
// within a sheet; if the upstream data violates that, the last column with
// a given title wins.
func (s *Sheet) MapColumns() *ColumnMap {
	m := &ColumnMap{
		idByTitle: make(map[string]int64, len(s.Columns)),
		titleByID: make(map[int64]string, len(s.Columns)),
		typeByID:  make(map[int64]ColumnType, len(s.Columns)),
	}
	for _, c := range s.Columns {
		m.idByTitle[c.Title] = c.ID
		m.titleByID[c.ID] = c.Title
		m.typeByID[c.ID] = c.Type
	}
	return m
}

// IDByTitle returns the column id for a title.
func (m *ColumnMap) IDByTitle(title string) (int64, bool) {
	id, ok := m.idByTitle[title]
	return id, ok
}

// TitleByID returns the column title for an id.
func (m *ColumnMap) TitleByID(id int64) (string, bool) {
	title, ok := m.titleByID[id]
	return title, ok
}

// TypeByID returns the column type for an id.
func (m *ColumnMap) TypeByID(id int64) ColumnType {
	return m.typeByID[id]
}

// HasTitle reports whether a column with the title exists.
func (m *ColumnMap) HasTitle(title string) bool {
	_, ok := m.idByTitle[title]
	return ok
}

// RowIDs returns the identifiers of all rows in the sheet, in sheet order.
func (s *Sheet) RowIDs() []int64 {
	ids := make([]int64, len(s.Rows))
	for i, r := range s.Rows {
		ids[i] = r.ID
	}
	return ids
}
