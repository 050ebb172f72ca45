package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

func newSetCmd() *cobra.Command {
	var setNull bool
	cmd := &cobra.Command{
		Use:   "set <table> <row> <column> [value]",
		Short: "Change one value of a row and save",
		Long: "Load the table, store value in the given column of row <row> (as numbered\n" +
			"by show) and save. Use --null instead of a value to store NULL.",
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if setNull == (len(args) == 4) {
				return invalidArgf("give either a value or --null")
			}
			return runSet(cmd, args, setNull)
		},
	}
	cmd.Flags().BoolVar(&setNull, "null", false, "store NULL instead of a value")
	return cmd
}

func runSet(cmd *cobra.Command, args []string, setNull bool) error {
	row, err := parseRow(args[1])
	if err != nil {
		return err
	}
	return editTable(cmd, args[0], func(t *types.Table) error {
		col, err := t.ColumnIndex(args[2])
		if err != nil {
			return fmt.Errorf("column %q: %w", args[2], err)
		}
		var v any
		if !setNull {
			if v, err = parseValue(t.Columns[col], args[3]); err != nil {
				return err
			}
		}
		if err := t.SetAt(row, col, v); err != nil {
			return fmt.Errorf("row %d: %w", row+1, err)
		}
		return nil
	})
}

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <table> <column=value>...",
		Short: "Add a row and save",
		Long: "Load the table, append a row built from the column=value pairs and save.\n" +
			"Columns that are not named stay NULL so the engine can fill defaults.",
		Args: cobra.MinimumNArgs(2),
		RunE: runInsert,
	}
}

func runInsert(cmd *cobra.Command, args []string) error {
	return editTable(cmd, args[0], func(t *types.Table) error {
		values := make([]any, len(t.Columns))
		for _, pair := range args[1:] {
			name, raw, ok := strings.Cut(pair, "=")
			if !ok || name == "" {
				return invalidArgf("expected column=value, got %q", pair)
			}
			col, err := t.ColumnIndex(name)
			if err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
			v, err := parseValue(t.Columns[col], raw)
			if err != nil {
				return err
			}
			values[col] = v
		}
		return t.AddRow(values...)
	})
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <row>",
		Short: "Delete a row and save",
		Args:  cobra.ExactArgs(2),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	row, err := parseRow(args[1])
	if err != nil {
		return err
	}
	return editTable(cmd, args[0], func(t *types.Table) error {
		if err := t.DeleteRow(row); err != nil {
			return fmt.Errorf("row %d: %w", row+1, err)
		}
		return nil
	})
}

// editTable loads name, applies mutate to the buffer and saves the result.
func editTable(cmd *cobra.Command, name string, mutate func(*types.Table) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.load(cmd, name)
	if err != nil {
		return err
	}
	if err := mutate(t); err != nil {
		return err
	}

	res, err := s.svc.SaveChanges(cmd.Context(), t)
	if err != nil {
		return err
	}

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	printSaveResult(cmd.OutOrStdout(), t.Name, res)
	return nil
}

func printSaveResult(w io.Writer, table string, res types.SaveResult) {
	if res.Total() == 0 {
		fmt.Fprintf(w, "%s: nothing to save\n", types.DisplayName(table))
		return
	}
	fmt.Fprintf(w, "%s saved: %d inserted, %d updated, %d deleted (batch %s)\n",
		types.DisplayName(table), res.Inserted, res.Updated, res.Deleted, res.BatchID)
}

// parseRow converts a 1-based row number into a buffer index.
func parseRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, invalidArgf("row must be a positive number, got %q", s)
	}
	return n - 1, nil
}
