package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		in      string
		want    any
		wantErr bool
	}{
		{name: "integer", typ: "INTEGER", in: " 42 ", want: int64(42)},
		{name: "access counter", typ: "COUNTER", in: "7", want: int64(7)},
		{name: "integer rejects text", typ: "INT", in: "sieben", wantErr: true},
		{name: "real with comma", typ: "REAL", in: "12,5", want: 12.5},
		{name: "double", typ: "DOUBLE", in: "3.25", want: 3.25},
		{name: "currency rejects text", typ: "CURRENCY", in: "viel", wantErr: true},
		{name: "boolean german", typ: "BOOLEAN", in: "ja", want: true},
		{name: "bit", typ: "BIT", in: "0", want: false},
		{name: "boolean rejects text", typ: "YESNO", in: "vielleicht", wantErr: true},
		{name: "text passes through", typ: "TEXT", in: "Raum 101", want: "Raum 101"},
		{name: "access memo", typ: "ADLONGVARWCHAR", in: "Raum 101", want: "Raum 101"},
		{name: "ansi memo", typ: "ADLONGVARCHAR", in: "Raum 101", want: "Raum 101"},
		{name: "long binary", typ: "ADLONGVARBINARY", in: "0x01", want: "0x01"},
		{name: "access short text", typ: "ADVARWCHAR", in: "12", want: "12"},
		{name: "access long integer", typ: "ADINTEGER", in: "12", want: int64(12)},
		{name: "access byte", typ: "ADUNSIGNEDTINYINT", in: "3", want: int64(3)},
		{name: "access double", typ: "ADDOUBLE", in: "1,5", want: 1.5},
		{name: "unknown type passes through", typ: "", in: "x", want: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(types.Column{Name: "c", Type: tt.typ}, tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue_Dates(t *testing.T) {
	want := time.Date(2024, 9, 2, 0, 0, 0, 0, time.Local)

	for _, in := range []string{"2024-09-02", "02.09.2024"} {
		got, err := parseValue(types.Column{Name: "Beginn", Type: "DATETIME"}, in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got.(time.Time)), in)
	}

	_, err := parseValue(types.Column{Name: "Beginn", Type: "DATE"}, "morgen")
	assert.ErrorIs(t, err, errInvalidArgument)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "abc", formatValue([]byte("abc")))
	assert.Equal(t, "2024-09-02", formatValue(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-09-02 08:15:00", formatValue(time.Date(2024, 9, 2, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, "12.5", formatValue(12.5))
}

func TestParseRow(t *testing.T) {
	got, err := parseRow("3")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	for _, in := range []string{"0", "-1", "drei"} {
		_, err := parseRow(in)
		assert.ErrorIs(t, err, errInvalidArgument, in)
	}
}
