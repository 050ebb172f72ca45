package access

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

type statementKind int

const (
	stmtDelete statementKind = iota
	stmtUpdate
	stmtInsert
)

func (k statementKind) String() string {
	switch k {
	case stmtDelete:
		return "delete"
	case stmtUpdate:
		return "update"
	default:
		return "insert"
	}
}

// statement is one parameterised write derived from a changed row.
type statement struct {
	kind  statementKind
	query string
	args  []any
}

// quoteIdent brackets an identifier. Brackets cannot be escaped inside an
// Access identifier, so names containing them are rejected.
func quoteIdent(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "[]") {
		return "", fmt.Errorf("%w %q", types.ErrInvalidIdentifier, name)
	}
	return "[" + name + "]", nil
}

// selectAllQuery returns the load query for a table.
func selectAllQuery(table string) (string, error) {
	q, err := quoteIdent(table)
	if err != nil {
		return "", err
	}
	return "SELECT * FROM " + q, nil
}

// buildStatements derives the writes for every pending row of t: deletes
// first, then updates, then inserts.
func buildStatements(table string, t *types.Table) ([]statement, error) {
	var deletes, updates, inserts []statement
	for _, r := range t.Changes() {
		switch r.State() {
		case types.RowDeleted:
			st, err := buildDelete(table, t.Columns, r)
			if err != nil {
				return nil, err
			}
			deletes = append(deletes, st)
		case types.RowModified:
			st, ok, err := buildUpdate(table, t.Columns, r)
			if err != nil {
				return nil, err
			}
			if ok {
				updates = append(updates, st)
			}
		case types.RowAdded:
			st, err := buildInsert(table, t.Columns, r)
			if err != nil {
				return nil, err
			}
			inserts = append(inserts, st)
		}
	}
	out := append(deletes, updates...)
	return append(out, inserts...), nil
}

// buildInsert lists only non-NULL values so engine defaults and
// auto-numbered keys apply to the rest.
func buildInsert(table string, cols []types.Column, r *types.Row) (statement, error) {
	qt, err := quoteIdent(table)
	if err != nil {
		return statement{}, err
	}
	var names, marks []string
	var args []any
	for i, c := range cols {
		v := r.Value(i)
		if v == nil {
			continue
		}
		qc, err := quoteIdent(c.Name)
		if err != nil {
			return statement{}, err
		}
		names = append(names, qc)
		marks = append(marks, "?")
		args = append(args, v)
	}
	if len(names) == 0 {
		return statement{kind: stmtInsert, query: "INSERT INTO " + qt + " DEFAULT VALUES"}, nil
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", qt, strings.Join(names, ", "), strings.Join(marks, ", "))
	return statement{kind: stmtInsert, query: query, args: args}, nil
}

// buildUpdate sets the columns that differ from the snapshot. ok is false
// when nothing differs.
func buildUpdate(table string, cols []types.Column, r *types.Row) (statement, bool, error) {
	qt, err := quoteIdent(table)
	if err != nil {
		return statement{}, false, err
	}
	var sets []string
	var args []any
	for i, c := range cols {
		if !r.Changed(i) {
			continue
		}
		qc, err := quoteIdent(c.Name)
		if err != nil {
			return statement{}, false, err
		}
		sets = append(sets, qc+" = ?")
		args = append(args, r.Value(i))
	}
	if len(sets) == 0 {
		return statement{}, false, nil
	}
	where, whereArgs, err := whereClause(cols, r)
	if err != nil {
		return statement{}, false, err
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", qt, strings.Join(sets, ", "), where)
	return statement{kind: stmtUpdate, query: query, args: append(args, whereArgs...)}, true, nil
}

func buildDelete(table string, cols []types.Column, r *types.Row) (statement, error) {
	qt, err := quoteIdent(table)
	if err != nil {
		return statement{}, err
	}
	where, args, err := whereClause(cols, r)
	if err != nil {
		return statement{}, err
	}
	return statement{kind: stmtDelete, query: "DELETE FROM " + qt + " WHERE " + where, args: args}, nil
}

// whereClause identifies a row by its primary key columns, or by every
// column when the table has no key. Values come from the snapshot.
func whereClause(cols []types.Column, r *types.Row) (string, []any, error) {
	idx := make([]int, 0, len(cols))
	for i, c := range cols {
		if c.PrimaryKey {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		for i := range cols {
			idx = append(idx, i)
		}
	}

	original := r.Original()
	var conds []string
	var args []any
	for _, i := range idx {
		qc, err := quoteIdent(cols[i].Name)
		if err != nil {
			return "", nil, err
		}
		if original[i] == nil {
			conds = append(conds, qc+" IS NULL")
			continue
		}
		conds = append(conds, qc+" = ?")
		args = append(args, original[i])
	}
	return strings.Join(conds, " AND "), args, nil
}
