package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column headers of the OMNY trip history export
const (
	ColumnTripTime    = "Trip Time"
	ColumnMode        = "Mode"
	ColumnProductType = "Product Type"
	ColumnFareAmount  = "Fare Amount ($)"
)

// ArchiveEntry is the file read from a zipped export
const ArchiveEntry = "trip_history.csv"

// Trip represents one row of the trip history
type Trip struct {
	Time        time.Time // converted to the report location
	Mode        string
	ProductType string
	Fare        string // literal cell, e.g. "$2.90"
	FareAmount  decimal.Decimal
}

// History holds all trips of an export in chronological order
type History struct {
	Path     string
	Archived bool
	Trips    []Trip
}

// First returns the earliest trip. The history must not be empty.
func (h *History) First() Trip {
	return h.Trips[0]
}

// Last returns the latest trip. The history must not be empty.
func (h *History) Last() Trip {
	return h.Trips[len(h.Trips)-1]
}
