package access

import (
	"database/sql"
	"strings"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// readTable materialises rows into a new buffer. keys names the primary key
// columns, matched case-insensitively.
func readTable(rows *sql.Rows, name, query string, keys []string) (*types.Table, error) {
	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[strings.ToLower(k)] = true
	}

	cols := make([]types.Column, len(cts))
	for i, ct := range cts {
		nullable, ok := ct.Nullable()
		cols[i] = types.Column{
			Name:       ct.Name(),
			Type:       ct.DatabaseTypeName(),
			Nullable:   !ok || nullable,
			PrimaryKey: isKey[strings.ToLower(ct.Name())],
		}
	}

	tbl := types.NewTable(name, query, cols)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		if err := tbl.AppendLoaded(values); err != nil {
			return nil, err
		}
		clear(values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tbl, nil
}
