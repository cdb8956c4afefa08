package history

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kkysen/omny-summary/internal/money"
	log "github.com/sirupsen/logrus"
)

// timeLayouts are the timestamp layouts accepted in the Trip Time column.
// Every layout carries a zone offset; naive timestamps are rejected. Month,
// day and hour fields in the slash layouts are unpadded, which also accepts
// padded values.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05-0700",
	"1/2/2006 15:04:05 Z07:00",
	"1/2/2006 15:04:05 -0700",
	"1/2/2006 15:04 Z07:00",
	"1/2/2006 15:04 -0700",
	"1/2/2006 3:04:05 PM Z07:00",
	"1/2/2006 3:04:05 PM -0700",
	"1/2/2006 3:04 PM Z07:00",
	"1/2/2006 3:04 PM -0700",
}

var requiredColumns = []string{ColumnTripTime, ColumnMode, ColumnProductType, ColumnFareAmount}

// Load reads a trip history export, either a plain CSV file or a zip archive
// containing trip_history.csv. Trip times are converted to loc and trips are
// returned oldest first.
func Load(path string, loc *time.Location) (*History, error) {
	r, err := zip.OpenReader(path)
	switch {
	case err == nil:
		defer r.Close()
		trips, err := parseArchive(&r.Reader, loc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return newHistory(path, true, trips), nil
	case errors.Is(err, zip.ErrFormat):
		// not an archive, fall through to plain CSV
	default:
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	trips, err := Parse(f, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return newHistory(path, false, trips), nil
}

func parseArchive(r *zip.Reader, loc *time.Location) ([]Trip, error) {
	for _, f := range r.File {
		if f.Name != ArchiveEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", ArchiveEntry, err)
		}
		defer rc.Close()
		return Parse(rc, loc)
	}
	return nil, ErrMissingEntry
}

func newHistory(path string, archived bool, trips []Trip) *History {
	log.WithFields(log.Fields{
		"path":     path,
		"archived": archived,
		"trips":    len(trips),
	}).Debug("Trip history loaded")
	return &History{Path: path, Archived: archived, Trips: trips}
}

// Parse reads trip rows from CSV. The export lists the newest trip first, so
// rows are reversed and then stable-sorted by time; rows sharing a timestamp
// keep their reversed file order.
func Parse(r io.Reader, loc *time.Location) ([]Trip, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := makeIndex(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var trips []Trip
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)

		trip, err := parseTrip(record, idx, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		trips = append(trips, trip)
	}
	if len(trips) == 0 {
		return nil, ErrEmpty
	}

	for i, j := 0, len(trips)-1; i < j; i, j = i+1, j-1 {
		trips[i], trips[j] = trips[j], trips[i]
	}
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].Time.Before(trips[j].Time)
	})

	return trips, nil
}

func parseTrip(record []string, idx map[string]int, loc *time.Location) (Trip, error) {
	t, err := parseTime(getField(record, idx, ColumnTripTime))
	if err != nil {
		return Trip{}, err
	}
	fare := getField(record, idx, ColumnFareAmount)
	amount, err := money.ParseFare(fare)
	if err != nil {
		return Trip{}, err
	}
	return Trip{
		Time:        t.In(loc),
		Mode:        getField(record, idx, ColumnMode),
		ProductType: getField(record, idx, ColumnProductType),
		Fare:        fare,
		FareAmount:  amount,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	// time.Parse only matches an uppercase AM/PM
	upper := strings.ToUpper(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized trip time %q", s)
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
