package smartsync

// TableColumn is one column of a typed read result.
type TableColumn struct {
	Title string
	Kind  Kind
}

// Table is the typed tabular result of a read pass. Column kinds are
// inferred from the data: numeric first, narrowed to integer when every
// value is integral, string otherwise.
type Table struct {
	Columns []TableColumn
	Rows    [][]Value
}

// NewTable builds a table over the given rows and infers each column's
// kind. Rows shorter than the column list are padded with nulls.
func NewTable(columns []string, rows [][]Value) *Table {
	t := &Table{
		Columns: make([]TableColumn, len(columns)),
		Rows:    make([][]Value, len(rows)),
	}

	for i, row := range rows {
		if len(row) < len(columns) {
			padded := make([]Value, len(columns))
			copy(padded, row)
			row = padded
		}
		t.Rows[i] = row
	}

	for i, title := range columns {
		t.Columns[i] = TableColumn{Title: title, Kind: t.inferKind(i)}
	}
	return t
}

// inferKind attempts column-wide coercion in order: numeric, then integer,
// then string. Nulls do not participate; an all-null column is text.
func (t *Table) inferKind(col int) Kind {
	numeric := false
	integral := true

	for _, row := range t.Rows {
		v := row[col]
		if v.IsNull() {
			continue
		}
		if _, ok := v.Float(); !ok {
			return KindText
		}
		numeric = true
		if _, ok := v.Int(); !ok {
			integral = false
		}
	}

	switch {
	case !numeric:
		return KindText
	case integral:
		return KindInt
	default:
		return KindFloat
	}
}

// Titles returns the column titles in order.
func (t *Table) Titles() []string {
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	return titles
}

// Dataset converts the table into the input boundary shape, for workflows
// that read from one sheet and reconcile the result into another.
func (t *Table) Dataset() *Dataset {
	ds := &Dataset{
		Columns: t.Titles(),
		Records: make([]*Record, len(t.Rows)),
	}
	for i, row := range t.Rows {
		rec := &Record{Values: make(map[string]Value, len(t.Columns))}
		for j, c := range t.Columns {
			rec.Values[c.Title] = row[j]
		}
		ds.Records[i] = rec
	}
	return ds
}
