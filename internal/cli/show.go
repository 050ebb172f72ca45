package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// tableJSON is the --json form of a loaded table.
type tableJSON struct {
	Table   string           `json:"table"`
	Columns []types.Column   `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [table]",
		Short: "Show the rows of a table",
		Long: "Load a table and print its rows. Without an argument the lecturer\n" +
			"master data (" + types.DefaultTable + ") is shown. Row numbers in the\n" +
			"first column are the ones set and delete expect.",
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	name := types.DefaultTable
	if len(args) == 1 {
		name = args[0]
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.load(cmd, name)
	if err != nil {
		return err
	}

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), toTableJSON(t))
	}
	renderTable(cmd.OutOrStdout(), t)
	return nil
}

func toTableJSON(t *types.Table) tableJSON {
	out := tableJSON{
		Table:   t.Name,
		Columns: t.Columns,
		Rows:    make([]map[string]any, 0, t.Len()),
	}
	for _, r := range t.Rows() {
		row := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			v := r.Value(i)
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[c.Name] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func renderTable(w io.Writer, t *types.Table) {
	fmt.Fprintf(w, "%s\n", types.DisplayName(t.Name))
	if t.Len() == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, 0, len(t.Columns)+1)
	header = append(header, "#")
	for _, c := range t.Columns {
		name := c.Name
		if c.PrimaryKey {
			name += " *"
		}
		header = append(header, name)
	}
	tw.AppendHeader(header)

	for i, r := range t.Rows() {
		row := make(table.Row, 0, len(t.Columns)+1)
		row = append(row, i+1)
		for col := range t.Columns {
			row = append(row, formatValue(r.Value(col)))
		}
		tw.AppendRow(row)
	}

	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", t.Len())
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", x)
	}
}
