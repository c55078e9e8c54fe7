package smartsync

import "fmt"

// NewCell is one planned cell mutation: the destination column id plus the
// value already coerced to the store's representation.
type NewCell struct {
	ColumnID int64
	Value    interface{}
}

// RowUpdate rewrites cells of an existing remote row, matched by its
// logical key.
type RowUpdate struct {
	RowID int64
	Ref   string
	Cells []NewCell
}

// RowInsert appends a new row at the end of the sheet for an input record
// whose key has no remote match.
type RowInsert struct {
	Ref   string
	Cells []NewCell
}

// Orphan is a remote row whose key has no corresponding input record in the
// current pass.
type Orphan struct {
	RowID int64
	Ref   string
}

// Plan is the outcome of one reconciliation pass: three disjoint action
// sets. Orphans are always computed; whether they are deleted is decided by
// the caller, not by the planner.
type Plan struct {
	Updates []RowUpdate
	Inserts []RowInsert
	Orphans []Orphan

	// SkippedNew counts input keys with no remote match when insertion is
	// disabled. They are dropped silently from the mutation set but
	// reported for observability.
	SkippedNew int
}

type inputKey struct {
	key string
	ref Value // snapshot of the reference value at key extraction
	rec *Record
}

// refIndex partitions remote rows into matched and unmatched sets relative
// to the input's key column.
type refIndex struct {
	matched map[string]int64 // key -> remote row id
	rows    map[int64]*Row   // matched rows by row id
	order   []string         // matched keys in remote row order
	noMatch []Orphan
}

// buildIndex scans every remote row for non-null cells bound to the
// reference column. A row is matched if any such cell carries a key from
// the input set; only rows with no matching cell at all end up as
// no-matches. Duplicate keys within the remote sheet resolve
// last-write-wins: the last-seen row with a given key wins the match.
func buildIndex(sheet *Sheet, refColumnID int64, keys map[string]struct{}) *refIndex {
	idx := &refIndex{
		matched: make(map[string]int64),
		rows:    make(map[int64]*Row),
	}

	for i := range sheet.Rows {
		row := &sheet.Rows[i]
		for _, cell := range row.Cells {
			if cell.ColumnID != refColumnID || cell.Value.IsNull() {
				continue
			}
			k := cell.Value.Key()
			if _, ok := keys[k]; ok {
				if _, seen := idx.matched[k]; !seen {
					idx.order = append(idx.order, k)
				}
				idx.matched[k] = row.ID
				idx.rows[row.ID] = row
			} else {
				idx.noMatch = append(idx.noMatch, Orphan{RowID: row.ID, Ref: k})
			}
		}
	}

	// A row carrying both a matching and a non-matching reference cell was
	// recorded on both sides of the scan. Matching takes precedence, so its
	// stale keys are not orphan candidates.
	if len(idx.noMatch) > 0 {
		kept := idx.noMatch[:0]
		for _, o := range idx.noMatch {
			if _, matched := idx.rows[o.RowID]; !matched {
				kept = append(kept, o)
			}
		}
		idx.noMatch = kept
	}
	return idx
}

// BuildPlan diffs the input dataset against the remote sheet snapshot by
// the reference column and classifies every input record and every remote
// row into update, insert or orphan buckets.
//
// Update actions touch only columns present in both the input and the
// remote sheet, never the reference column itself: the reference column is
// the sync anchor and is not rewritten. Insert actions (emitted only when
// insertEnabled) cover every remote column whose title also exists in the
// input; their reference cell carries the logical key snapshot taken before
// planning, so a record mutated mid-pass cannot change the key it is filed
// under.
//
// An input record with a null or empty key is never matchable and always
// counts as missing. Duplicate non-empty keys in the input are rejected
// with ErrDuplicateRef before any action is produced.
func BuildPlan(ds *Dataset, sheet *Sheet, refColumn string, insertEnabled bool) (*Plan, error) {
	if !ds.HasColumn(refColumn) {
		return nil, fmt.Errorf("%w in input columns: %q", ErrColumnNotFound, refColumn)
	}

	cols := sheet.MapColumns()
	refColumnID, ok := cols.IDByTitle(refColumn)
	if !ok {
		return nil, fmt.Errorf("%w in target sheet columns: %q", ErrColumnNotFound, refColumn)
	}

	// Input keys: ordered, first occurrence, reference value snapshotted.
	inputs := make([]inputKey, 0, len(ds.Records))
	keySet := make(map[string]struct{}, len(ds.Records))
	byKey := make(map[string]*Record, len(ds.Records))
	for _, rec := range ds.Records {
		ref := rec.Get(refColumn)
		k := ref.Key()
		if k != "" {
			if _, dup := keySet[k]; dup {
				return nil, fmt.Errorf("%w in input: %q", ErrDuplicateRef, k)
			}
			keySet[k] = struct{}{}
			byKey[k] = rec
		}
		inputs = append(inputs, inputKey{key: k, ref: ref, rec: rec})
	}

	idx := buildIndex(sheet, refColumnID, keySet)

	plan := &Plan{Orphans: idx.noMatch}

	// Update actions, in remote row order.
	for _, k := range idx.order {
		rowID := idx.matched[k]
		rec := byKey[k]
		row := idx.rows[rowID]

		update := RowUpdate{RowID: rowID, Ref: k}
		for _, cell := range row.Cells {
			title, known := cols.TitleByID(cell.ColumnID)
			if !known || title == refColumn || !ds.HasColumn(title) {
				continue
			}
			update.Cells = append(update.Cells, NewCell{
				ColumnID: cell.ColumnID,
				Value:    Coerce(rec.Get(title), cols.TypeByID(cell.ColumnID)),
			})
		}
		plan.Updates = append(plan.Updates, update)
	}

	// Insert actions for keys absent remotely, in input order.
	for _, in := range inputs {
		if in.key != "" {
			if _, matched := idx.matched[in.key]; matched {
				continue
			}
		}
		if !insertEnabled {
			plan.SkippedNew++
			continue
		}

		insert := RowInsert{Ref: in.key}
		for _, col := range sheet.Columns {
			if !ds.HasColumn(col.Title) {
				continue
			}
			value := in.rec.Get(col.Title)
			if col.Title == refColumn {
				value = in.ref
			}
			insert.Cells = append(insert.Cells, NewCell{
				ColumnID: col.ID,
				Value:    Coerce(value, col.Type),
			})
		}
		plan.Inserts = append(plan.Inserts, insert)
	}

	return plan, nil
}
