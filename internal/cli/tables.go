package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// tableStatus is one line of the tables report.
type tableStatus struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Present bool   `json:"present"`
}

type tablesReport struct {
	Database   string        `json:"database"`
	Provider   string        `json:"provider"`
	AllPresent bool          `json:"all_present"`
	Tables     []tableStatus `json:"tables"`
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Check the required tables of the database",
		Long: "Connect to the database and report, for each required table, whether\n" +
			"the file contains it. Missing tables cannot be opened with show or edited.",
		Args: cobra.NoArgs,
		RunE: runTables,
	}
}

func runTables(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	required := s.settings.RequiredTables
	allPresent, missing, err := s.svc.ValidateSchema(cmd.Context(), required)
	if err != nil {
		return err
	}

	absent := make(map[string]bool, len(missing))
	for _, m := range missing {
		absent[m] = true
	}
	report := tablesReport{
		Database:   s.path,
		Provider:   s.providerName(),
		AllPresent: allPresent,
		Tables:     make([]tableStatus, 0, len(required)),
	}
	for _, name := range required {
		report.Tables = append(report.Tables, tableStatus{
			Name:    name,
			Display: types.DisplayName(name),
			Present: !absent[name],
		})
	}

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	renderTablesReport(cmd.OutOrStdout(), report, len(missing))
	return nil
}

func renderTablesReport(w io.Writer, r tablesReport, missing int) {
	fmt.Fprintf(w, "Database: %s (%s)\n", r.Database, r.Provider)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Table", "Status"})
	for _, ts := range r.Tables {
		status := "present"
		if !ts.Present {
			status = "missing"
		}
		t.AppendRow(table.Row{ts.Display, status})
	}
	t.Render()

	if missing > 0 {
		fmt.Fprintf(w, "%d required table(s) are missing from the database.\n", missing)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
