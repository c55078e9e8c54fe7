package smartsync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	refColID = int64(101)
	xColID   = int64(102)
)

func testSheet(rows ...Row) *Sheet {
	return &Sheet{
		ID:   5911,
		Name: "target",
		Columns: []Column{
			{ID: refColID, Title: "ref", Type: ColumnTypeTextNumber},
			{ID: xColID, Title: "x", Type: ColumnTypeTextNumber},
		},
		Rows:          rows,
		TotalRowCount: len(rows),
	}
}

func remoteRow(id int64, ref string, x interface{}) Row {
	return Row{
		ID: id,
		Cells: []Cell{
			{ColumnID: refColID, Value: Text(ref)},
			{ColumnID: xColID, Value: FromAny(x)},
		},
	}
}

func inputRecord(ref string, x Value) *Record {
	return &Record{Values: map[string]Value{"ref": Text(ref), "x": x}}
}

func testDataset(records ...*Record) *Dataset {
	return &Dataset{Columns: []string{"ref", "x"}, Records: records}
}

func TestBuildPlan_InsertDisabled(t *testing.T) {
	// Input A,B against remote A,C: A updates, B is dropped silently,
	// C is an orphan.
	ds := testDataset(
		inputRecord("A", Int(1)),
		inputRecord("B", Float(2.5)),
	)
	sheet := testSheet(
		remoteRow(11, "A", 0),
		remoteRow(12, "C", 9),
	)

	plan, err := BuildPlan(ds, sheet, "ref", false)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	require.Equal(t, int64(11), plan.Updates[0].RowID)
	require.Equal(t, "A", plan.Updates[0].Ref)
	require.Equal(t, []NewCell{{ColumnID: xColID, Value: int64(1)}}, plan.Updates[0].Cells)

	require.Empty(t, plan.Inserts)
	require.Equal(t, 1, plan.SkippedNew)

	require.Equal(t, []Orphan{{RowID: 12, Ref: "C"}}, plan.Orphans)
}

func TestBuildPlan_InsertEnabled(t *testing.T) {
	ds := testDataset(
		inputRecord("A", Int(1)),
		inputRecord("B", Float(2.5)),
	)
	sheet := testSheet(
		remoteRow(11, "A", 0),
		remoteRow(12, "C", 9),
	)

	plan, err := BuildPlan(ds, sheet, "ref", true)
	require.NoError(t, err)

	require.Len(t, plan.Inserts, 1)
	require.Equal(t, "B", plan.Inserts[0].Ref)
	require.Equal(t, []NewCell{
		{ColumnID: refColID, Value: "B"},
		{ColumnID: xColID, Value: 2.5},
	}, plan.Inserts[0].Cells)
	require.Zero(t, plan.SkippedNew)
}

func TestBuildPlan_PartitionCompleteness(t *testing.T) {
	ds := testDataset(
		inputRecord("A", Int(1)),
		inputRecord("B", Int(2)),
		inputRecord("C", Int(3)),
		inputRecord("D", Int(4)),
	)
	sheet := testSheet(
		remoteRow(11, "B", 0),
		remoteRow(12, "D", 0),
		remoteRow(13, "E", 0),
		remoteRow(14, "F", 0),
	)

	plan, err := BuildPlan(ds, sheet, "ref", true)
	require.NoError(t, err)

	got := map[string]bool{}
	for _, u := range plan.Updates {
		require.False(t, got[u.Ref], "key classified twice: %s", u.Ref)
		got[u.Ref] = true
	}
	for _, in := range plan.Inserts {
		require.False(t, got[in.Ref], "key classified twice: %s", in.Ref)
		got[in.Ref] = true
	}
	require.Equal(t, map[string]bool{"A": true, "B": true, "C": true, "D": true}, got)

	orphans := []string{}
	for _, o := range plan.Orphans {
		orphans = append(orphans, o.Ref)
	}
	require.Equal(t, []string{"E", "F"}, orphans)
}

func TestBuildPlan_ReferenceColumnNeverUpdated(t *testing.T) {
	ds := testDataset(inputRecord("A", Int(1)))
	sheet := testSheet(remoteRow(11, "A", 0))

	plan, err := BuildPlan(ds, sheet, "ref", true)
	require.NoError(t, err)

	for _, u := range plan.Updates {
		for _, c := range u.Cells {
			require.NotEqual(t, refColID, c.ColumnID,
				"reference column must not appear in an update action")
		}
	}
}

func TestBuildPlan_InsertKeySnapshot(t *testing.T) {
	// Mutating the record's reference field after planning must not change
	// the key emitted by the insert action.
	rec := inputRecord("B", Int(2))
	ds := testDataset(rec)
	sheet := testSheet(remoteRow(11, "A", 0))

	plan, err := BuildPlan(ds, sheet, "ref", true)
	require.NoError(t, err)

	rec.SetString("ref", "MUTATED")

	require.Len(t, plan.Inserts, 1)
	require.Equal(t, "B", plan.Inserts[0].Ref)
	require.Equal(t, "B", plan.Inserts[0].Cells[0].Value)
}

func TestBuildPlan_ReferenceColumnMissing(t *testing.T) {
	sheet := testSheet()

	_, err := BuildPlan(testDataset(), sheet, "nope", true)
	require.ErrorIs(t, err, ErrColumnNotFound)

	ds := &Dataset{Columns: []string{"nope"}}
	_, err = BuildPlan(ds, sheet, "nope", true)
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestBuildPlan_DuplicateInputKey(t *testing.T) {
	ds := testDataset(
		inputRecord("A", Int(1)),
		inputRecord("A", Int(2)),
	)
	_, err := BuildPlan(ds, testSheet(), "ref", true)
	require.ErrorIs(t, err, ErrDuplicateRef)
}

func TestBuildPlan_NullKeyAlwaysMissing(t *testing.T) {
	blank := &Record{Values: map[string]Value{"ref": Null(), "x": Int(9)}}
	ds := testDataset(blank, inputRecord("A", Int(1)))
	sheet := testSheet(remoteRow(11, "A", 0))

	plan, err := BuildPlan(ds, sheet, "ref", true)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	require.Len(t, plan.Inserts, 1)
	require.Equal(t, "", plan.Inserts[0].Ref)
}

func TestBuildPlan_TwoNullKeysAreNotDuplicates(t *testing.T) {
	ds := testDataset(
		&Record{Values: map[string]Value{"ref": Null(), "x": Int(1)}},
		&Record{Values: map[string]Value{"ref": Null(), "x": Int(2)}},
	)
	plan, err := BuildPlan(ds, testSheet(), "ref", true)
	require.NoError(t, err)
	require.Len(t, plan.Inserts, 2)
}

func TestBuildPlan_RemoteDuplicateLastWins(t *testing.T) {
	ds := testDataset(inputRecord("A", Int(1)))
	sheet := testSheet(
		remoteRow(11, "A", 0),
		remoteRow(12, "A", 0),
	)

	plan, err := BuildPlan(ds, sheet, "ref", false)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	require.Equal(t, int64(12), plan.Updates[0].RowID)
}

func TestBuildPlan_MatchedRowIsNeverAnOrphan(t *testing.T) {
	// A row may carry several cells bound to the reference column. One
	// matching cell makes the whole row matched; its remaining stale keys
	// must not nominate the row for deletion.
	ds := testDataset(inputRecord("A", Int(1)))
	sheet := testSheet(
		Row{
			ID: 11,
			Cells: []Cell{
				{ColumnID: refColID, Value: Text("A")},
				{ColumnID: refColID, Value: Text("STALE")},
				{ColumnID: xColID, Value: Int(0)},
			},
		},
		remoteRow(12, "GONE", 9),
	)

	plan, err := BuildPlan(ds, sheet, "ref", false)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	require.Equal(t, int64(11), plan.Updates[0].RowID)
	require.Equal(t, []Orphan{{RowID: 12, Ref: "GONE"}}, plan.Orphans)
}

func TestBuildPlan_MatchedRowIsNeverAnOrphan_StaleCellFirst(t *testing.T) {
	// Same as above with the stale cell ahead of the matching one: cell
	// order within the row must not matter.
	ds := testDataset(inputRecord("A", Int(1)))
	sheet := testSheet(Row{
		ID: 11,
		Cells: []Cell{
			{ColumnID: refColID, Value: Text("STALE")},
			{ColumnID: refColID, Value: Text("A")},
			{ColumnID: xColID, Value: Int(0)},
		},
	})

	plan, err := BuildPlan(ds, sheet, "ref", false)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	require.Empty(t, plan.Orphans)
}

func TestBuildPlan_NumericKeysMatchAcrossKinds(t *testing.T) {
	// An input key Int(1) matches a remote cell holding the number 1,
	// regardless of wire encoding.
	rec := &Record{Values: map[string]Value{"ref": Int(1), "x": Int(5)}}
	ds := testDataset(rec)
	sheet := testSheet(Row{
		ID: 11,
		Cells: []Cell{
			{ColumnID: refColID, Value: FromAny(float64(1))},
			{ColumnID: xColID, Value: Int(0)},
		},
	})

	plan, err := BuildPlan(ds, sheet, "ref", false)
	require.NoError(t, err)
	require.Len(t, plan.Updates, 1)
	require.Empty(t, plan.Orphans)
}

func TestBuildPlan_UpdateSkipsColumnsAbsentFromInput(t *testing.T) {
	// Remote has an extra column the input does not carry; updates must not
	// touch it.
	extraColID := int64(103)
	sheet := testSheet()
	sheet.Columns = append(sheet.Columns, Column{ID: extraColID, Title: "extra", Type: ColumnTypeTextNumber})
	sheet.Rows = []Row{{
		ID: 11,
		Cells: []Cell{
			{ColumnID: refColID, Value: Text("A")},
			{ColumnID: xColID, Value: Int(0)},
			{ColumnID: extraColID, Value: Text("keep")},
		},
	}}

	plan, err := BuildPlan(testDataset(inputRecord("A", Int(1))), sheet, "ref", false)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	require.Equal(t, []NewCell{{ColumnID: xColID, Value: int64(1)}}, plan.Updates[0].Cells)
}

func TestBuildPlan_CheckboxCoercion(t *testing.T) {
	boolColID := int64(104)
	sheet := &Sheet{
		Columns: []Column{
			{ID: refColID, Title: "ref", Type: ColumnTypeTextNumber},
			{ID: boolColID, Title: "done", Type: ColumnTypeCheckbox},
		},
		Rows: []Row{{
			ID: 11,
			Cells: []Cell{
				{ColumnID: refColID, Value: Text("A")},
				{ColumnID: boolColID, Value: Bool(false)},
			},
		}},
	}
	ds := &Dataset{
		Columns: []string{"ref", "done"},
		Records: []*Record{{Values: map[string]Value{"ref": Text("A"), "done": Int(1)}}},
	}

	plan, err := BuildPlan(ds, sheet, "ref", false)
	require.NoError(t, err)
	require.Equal(t, []NewCell{{ColumnID: boolColID, Value: true}}, plan.Updates[0].Cells)
}
