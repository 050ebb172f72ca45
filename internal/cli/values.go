package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// parseValue converts a command-line string into a value suited to the
// column's database type. Unknown types are passed through as strings and
// left to the engine to convert.
func parseValue(c types.Column, s string) (any, error) {
	typ := strings.ToUpper(c.Type)
	switch {
	case containsAny(typ, "CHAR", "BSTR", "TEXT", "CLOB", "BINARY", "BLOB"):
		return s, nil
	case containsAny(typ, "INT", "COUNTER"):
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, invalidArgf("column %q expects an integer, got %q", c.Name, s)
		}
		return n, nil
	case containsAny(typ, "REAL", "DOUBLE", "FLOAT", "SINGLE", "NUMERIC", "DECIMAL", "CURRENCY"):
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(s, ",", ".", 1)), 64)
		if err != nil {
			return nil, invalidArgf("column %q expects a number, got %q", c.Name, s)
		}
		return f, nil
	case containsAny(typ, "BOOL", "BIT", "YESNO"):
		b, err := parseBool(s)
		if err != nil {
			return nil, invalidArgf("column %q expects a boolean, got %q", c.Name, s)
		}
		return b, nil
	case containsAny(typ, "DATE", "TIME"):
		t, err := parseTime(s)
		if err != nil {
			return nil, invalidArgf("column %q expects a date (YYYY-MM-DD or DD.MM.YYYY), got %q", c.Name, s)
		}
		return t, nil
	default:
		return s, nil
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "yes", "wahr":
		return true, nil
	case "nein", "no", "falsch":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

var timeLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"02.01.2006",
	"02.01.2006 15:04:05",
	time.RFC3339,
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
