package types

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"time"
)

// Column describes one column of a loaded Table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// RowState tracks how a row differs from the last loaded or saved snapshot.
type RowState int

// Row states.
const (
	RowUnchanged RowState = iota
	RowAdded
	RowModified
	RowDeleted
)

// String returns the lower-case name of the state.
func (s RowState) String() string {
	switch s {
	case RowUnchanged:
		return "unchanged"
	case RowAdded:
		return "added"
	case RowModified:
		return "modified"
	case RowDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Row is one record of a Table. Values are read through the Table so that
// change tracking stays consistent.
type Row struct {
	values   []any
	original []any
	state    RowState
}

// State returns the row's change state.
func (r *Row) State() RowState { return r.state }

// Value returns the current value of column i.
func (r *Row) Value(i int) any { return r.values[i] }

// Values returns a copy of the current values.
func (r *Row) Values() []any { return append([]any(nil), r.values...) }

// Original returns a copy of the snapshot values. It is nil for added rows.
func (r *Row) Original() []any {
	if r.original == nil {
		return nil
	}
	return append([]any(nil), r.original...)
}

// Changed reports whether column i differs from the snapshot.
func (r *Row) Changed(i int) bool {
	if r.original == nil {
		return true
	}
	return !ValuesEqual(r.values[i], r.original[i])
}

// Table is the in-memory buffer produced by Service.LoadTable. All rows share
// Columns. Deleted rows are hidden from Len, Row and Set but are reported by
// Changes until AcceptChanges or RejectChanges.
type Table struct {
	Name    string
	Query   string
	Columns []Column

	rows []*Row
}

// Table buffer errors.
var (
	ErrRowOutOfRange  = errors.New("row index out of range")
	ErrColumnNotFound = errors.New("column not found")
	ErrValueCount     = errors.New("value count does not match column count")
)

// NewTable returns an empty Table with the given schema.
func NewTable(name, query string, columns []Column) *Table {
	return &Table{Name: name, Query: query, Columns: columns}
}

// AppendLoaded adds a row read from the engine. The row starts unchanged.
func (t *Table) AppendLoaded(values []any) error {
	if len(values) != len(t.Columns) {
		return ErrValueCount
	}
	t.rows = append(t.rows, &Row{
		values:   append([]any(nil), values...),
		original: append([]any(nil), values...),
		state:    RowUnchanged,
	})
	return nil
}

// Len returns the number of visible (not deleted) rows.
func (t *Table) Len() int {
	n := 0
	for _, r := range t.rows {
		if r.state != RowDeleted {
			n++
		}
	}
	return n
}

// Rows returns the visible rows in order.
func (t *Table) Rows() []*Row {
	out := make([]*Row, 0, len(t.rows))
	for _, r := range t.rows {
		if r.state != RowDeleted {
			out = append(out, r)
		}
	}
	return out
}

// Row returns the i-th visible row.
func (t *Table) Row(i int) (*Row, error) {
	idx, err := t.visible(i)
	if err != nil {
		return nil, err
	}
	return t.rows[idx], nil
}

// ColumnIndex finds a column by name, ignoring case.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, nil
		}
	}
	return -1, ErrColumnNotFound
}

// KeyColumns returns the indexes of the primary key columns.
func (t *Table) KeyColumns() []int {
	var keys []int
	for i, c := range t.Columns {
		if c.PrimaryKey {
			keys = append(keys, i)
		}
	}
	return keys
}

// Value returns the value at visible row i and the named column.
func (t *Table) Value(i int, column string) (any, error) {
	r, err := t.Row(i)
	if err != nil {
		return nil, err
	}
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	return r.values[col], nil
}

// Set stores v in the named column of visible row i.
func (t *Table) Set(i int, column string, v any) error {
	col, err := t.ColumnIndex(column)
	if err != nil {
		return err
	}
	return t.SetAt(i, col, v)
}

// SetAt stores v in column col of visible row i. An unchanged row becomes
// modified; an added row stays added.
func (t *Table) SetAt(i, col int, v any) error {
	idx, err := t.visible(i)
	if err != nil {
		return err
	}
	if col < 0 || col >= len(t.Columns) {
		return ErrColumnNotFound
	}
	r := t.rows[idx]
	r.values[col] = v
	if r.state == RowUnchanged {
		r.state = RowModified
	}
	return nil
}

// AddRow appends a new row. values must have one entry per column.
func (t *Table) AddRow(values ...any) error {
	if len(values) != len(t.Columns) {
		return ErrValueCount
	}
	t.rows = append(t.rows, &Row{
		values: append([]any(nil), values...),
		state:  RowAdded,
	})
	return nil
}

// DeleteRow marks visible row i as deleted. An added row is dropped.
func (t *Table) DeleteRow(i int) error {
	idx, err := t.visible(i)
	if err != nil {
		return err
	}
	r := t.rows[idx]
	if r.state == RowAdded {
		t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
		return nil
	}
	r.values = append([]any(nil), r.original...)
	r.state = RowDeleted
	return nil
}

// Changes returns the rows that are added, modified or deleted, in order.
func (t *Table) Changes() []*Row {
	var out []*Row
	for _, r := range t.rows {
		if r.state != RowUnchanged {
			out = append(out, r)
		}
	}
	return out
}

// HasChanges reports whether any row is pending.
func (t *Table) HasChanges() bool {
	for _, r := range t.rows {
		if r.state != RowUnchanged {
			return true
		}
	}
	return false
}

// AcceptChanges commits the current values as the new snapshot.
func (t *Table) AcceptChanges() {
	kept := t.rows[:0]
	for _, r := range t.rows {
		if r.state == RowDeleted {
			continue
		}
		r.original = append([]any(nil), r.values...)
		r.state = RowUnchanged
		kept = append(kept, r)
	}
	t.rows = kept
}

// RejectChanges restores the snapshot, dropping added rows.
func (t *Table) RejectChanges() {
	kept := t.rows[:0]
	for _, r := range t.rows {
		if r.state == RowAdded {
			continue
		}
		r.values = append([]any(nil), r.original...)
		r.state = RowUnchanged
		kept = append(kept, r)
	}
	t.rows = kept
}

func (t *Table) visible(i int) (int, error) {
	if i < 0 {
		return -1, ErrRowOutOfRange
	}
	n := 0
	for idx, r := range t.rows {
		if r.state == RowDeleted {
			continue
		}
		if n == i {
			return idx, nil
		}
		n++
	}
	return -1, ErrRowOutOfRange
}

// ValuesEqual compares two cell values as returned by database/sql drivers.
func ValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	return reflect.DeepEqual(a, b)
}
