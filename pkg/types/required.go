package types

// RequiredTables is the ordered list of tables a course planning database
// must contain.
var RequiredTables = []string{
	"ABST",
	"Amtsbezeichnung",
	"FKTEntwicklng",
	"Funktion",
	"Kurs_Liste",
	"KursBezeichnung",
	"Kursgruppen",
	"LA_Kurs_Daten",
	"LA_Schul_Daten",
	"LB_Stammdaten",
}

// DefaultTable is the table opened when the caller does not name one.
const DefaultTable = "LB_Stammdaten"

// displayNames maps table names to the labels shown to users.
var displayNames = map[string]string{
	DefaultTable: "Dozentenstamm",
}

// DisplayName returns the user-facing label for a table name.
func DisplayName(table string) string {
	if label, ok := displayNames[table]; ok {
		return label
	}
	return table
}
