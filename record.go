package smartsync

import "time"

// Record is one row of the input table: a mapping from column title to a
// scalar Value. A missing entry and an explicit null both coerce to the
// remote empty-string sentinel on write.
type Record struct {
	Values map[string]Value
}

// Dataset is the input tabular boundary: an ordered list of column titles
// plus the records themselves. Column order matters only for presentation;
// matching against the remote sheet is by title.
type Dataset struct {
	Columns []string
	Records []*Record
}

// HasColumn reports whether the dataset carries a column with the title.
func (d *Dataset) HasColumn(title string) bool {
	for _, c := range d.Columns {
		if c == title {
			return true
		}
	}
	return false
}

// Get returns the value for a column, or null if absent.
func (r *Record) Get(col string) Value {
	v, ok := r.Values[col]
	if !ok {
		return Null()
	}
	return v
}

// GetAsString returns the value as string or defaultValue if not found.
func (r *Record) GetAsString(col string, defaultValue string) string {
	v, ok := r.Values[col]
	if !ok || v.IsNull() {
		return defaultValue
	}
	return v.String()
}

// GetAsInt64 returns the value as int64 or defaultValue if not found.
func (r *Record) GetAsInt64(col string, defaultValue int64) int64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}
	if i, exact := v.Int(); exact {
		return i
	}
	return defaultValue
}

// GetAsFloat64 returns the value as float64 or defaultValue if not found.
func (r *Record) GetAsFloat64(col string, defaultValue float64) float64 {
	v, ok := r.Values[col]
	if !ok {
		return defaultValue
	}
	if f, exact := v.Float(); exact {
		return f
	}
	return defaultValue
}

// GetAsBool returns the value as bool or defaultValue if not found.
func (r *Record) GetAsBool(col string, defaultValue bool) bool {
	v, ok := r.Values[col]
	if !ok || v.IsNull() {
		return defaultValue
	}
	return v.Bool()
}

// GetAsTime returns the value as time.Time or defaultValue if not found.
func (r *Record) GetAsTime(col string, defaultValue time.Time) time.Time {
	v, ok := r.Values[col]
	if !ok || v.Kind() != KindText {
		return defaultValue
	}

	// Try various formats
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, v.String()); err == nil {
			return t
		}
	}
	return defaultValue
}

// SetString sets a string value.
func (r *Record) SetString(col string, value string) {
	r.set(col, Text(value))
}

// SetInt64 sets an int64 value.
func (r *Record) SetInt64(col string, value int64) {
	r.set(col, Int(value))
}

// SetFloat64 sets a float64 value.
func (r *Record) SetFloat64(col string, value float64) {
	r.set(col, Float(value))
}

// SetBool sets a bool value.
func (r *Record) SetBool(col string, value bool) {
	r.set(col, Bool(value))
}

// SetNull sets an explicit null, which clears the remote cell on write.
func (r *Record) SetNull(col string) {
	r.set(col, Null())
}

// SetTime sets a time.Time value (stored as ISO 8601 text).
func (r *Record) SetTime(col string, value time.Time) {
	r.set(col, Text(value.Format(time.RFC3339)))
}

func (r *Record) set(col string, v Value) {
	if r.Values == nil {
		r.Values = make(map[string]Value)
	}
	r.Values[col] = v
}
