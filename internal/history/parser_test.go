package history

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCSV mirrors the export: newest trip first, extra columns present.
const sampleCSV = `Trip Time,Reference Number,Mode,Product Type,Fare Amount ($)
2024-05-08T13:00:00-04:00,3,Bus,Transfer,$0.00
2024-05-08T12:30:00-04:00,2,Subway,PAYGO,$2.90
2024-05-06T08:15:00-04:00,1,Subway,PAYGO,$2.90
`

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeZip(t *testing.T, entry, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(entry)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestParseOrdersChronologically(t *testing.T) {
	trips, err := Parse(strings.NewReader(sampleCSV), newYork(t))
	require.NoError(t, err)
	require.Len(t, trips, 3)

	for i := 1; i < len(trips); i++ {
		assert.False(t, trips[i].Time.Before(trips[i-1].Time), "trip %d out of order", i)
	}
	assert.Equal(t, "PAYGO", trips[0].ProductType)
	assert.Equal(t, "Transfer", trips[2].ProductType)
	assert.Equal(t, "Bus", trips[2].Mode)
	assert.Equal(t, "$2.90", trips[0].Fare)
	assert.Equal(t, "2.90", trips[0].FareAmount.StringFixed(2))
	assert.Equal(t, "America/New_York", trips[0].Time.Location().String())
}

func TestParseConvertsToLocation(t *testing.T) {
	csv := "Trip Time,Mode,Product Type,Fare Amount ($)\n2024-01-15T03:30:00Z,Subway,PAYGO,$2.90\n"
	trips, err := Parse(strings.NewReader(csv), newYork(t))
	require.NoError(t, err)
	require.Len(t, trips, 1)

	// 03:30 UTC is the previous evening in New York
	assert.Equal(t, "01/14/2024 10:30 PM", trips[0].Time.Format("01/02/2006 03:04 PM"))
}

func TestParseKeepsReversedOrderForEqualTimes(t *testing.T) {
	csv := `Trip Time,Mode,Product Type,Fare Amount ($)
2024-05-06T08:15:00-04:00,Bus,Transfer,$0.00
2024-05-06T08:15:00-04:00,Subway,PAYGO,$2.90
`
	trips, err := Parse(strings.NewReader(csv), newYork(t))
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "Subway", trips[0].Mode)
	assert.Equal(t, "Bus", trips[1].Mode)
}

func TestParseAcceptsExportLayouts(t *testing.T) {
	for _, ts := range []string{
		"2024-05-06 08:15:00-04:00",
		"2024-05-06 08:15:00 -0400",
		"05/06/2024 08:15 AM -04:00",
		"05/06/2024 08:15:00 AM -0400",
		"5/6/2024 8:15 AM -04:00",
		"05/06/2024 8:15 AM -04:00",
		"05/06/2024 08:15 am -04:00",
		"5/6/2024 8:15:00 am -0400",
		"5/6/2024 08:15:00 -04:00",
		"5/6/2024 8:15 -04:00",
		"2024-05-06t08:15:00-04:00",
		"2024-05-06T12:15:00.250Z",
	} {
		t.Run(ts, func(t *testing.T) {
			csv := "Trip Time,Mode,Product Type,Fare Amount ($)\n" + ts + ",Subway,PAYGO,$2.90\n"
			trips, err := Parse(strings.NewReader(csv), newYork(t))
			require.NoError(t, err)
			assert.Equal(t, "05/06/2024 08:15 AM", trips[0].Time.Format("01/02/2006 03:04 PM"))
		})
	}
}

func TestParseToleratesBOMAndPaddedHeaders(t *testing.T) {
	csv := "\ufeffTrip Time , Mode,Product Type,Fare Amount ($)\n2024-05-06T08:15:00-04:00,Subway,PAYGO,$2.90\n"
	trips, err := Parse(strings.NewReader(csv), newYork(t))
	require.NoError(t, err)
	assert.Len(t, trips, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want error
	}{
		{
			name: "empty input",
			csv:  "",
			want: ErrEmpty,
		},
		{
			name: "header only",
			csv:  "Trip Time,Mode,Product Type,Fare Amount ($)\n",
			want: ErrEmpty,
		},
		{
			name: "missing fare column",
			csv:  "Trip Time,Mode,Product Type\n2024-05-06T08:15:00-04:00,Subway,PAYGO\n",
			want: ErrMissingColumn,
		},
		{
			name: "naive timestamp",
			csv:  "Trip Time,Mode,Product Type,Fare Amount ($)\n2024-05-06 08:15:00,Subway,PAYGO,$2.90\n",
			want: ErrMalformedRow,
		},
		{
			name: "bad fare",
			csv:  "Trip Time,Mode,Product Type,Fare Amount ($)\n2024-05-06T08:15:00-04:00,Subway,PAYGO,free\n",
			want: ErrMalformedRow,
		},
		{
			name: "short row",
			csv:  "Trip Time,Mode,Product Type,Fare Amount ($)\n2024-05-06T08:15:00-04:00,Subway\n",
			want: ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv), newYork(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadPlainAndArchiveMatch(t *testing.T) {
	loc := newYork(t)

	plain, err := Load(writeFile(t, "trip_history.csv", sampleCSV), loc)
	require.NoError(t, err)
	assert.False(t, plain.Archived)

	archived, err := Load(writeZip(t, ArchiveEntry, sampleCSV), loc)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	assert.Equal(t, plain.Trips, archived.Trips)
	assert.Equal(t, "2024-05-06", archived.First().Time.Format("2006-01-02"))
	assert.Equal(t, "Transfer", archived.Last().ProductType)
}

func TestLoadArchiveWithoutEntry(t *testing.T) {
	_, err := Load(writeZip(t, "other.csv", sampleCSV), newYork(t))
	assert.ErrorIs(t, err, ErrMissingEntry)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), newYork(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
