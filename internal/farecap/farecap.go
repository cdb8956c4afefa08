// Package farecap simulates rolling-window fare caps over a trip history.
//
// A cap of amount C over D days with a fixed fare F charges F for each trip
// in a window until the cumulative spend would exceed C. The trip that
// reaches the cap pays the remainder (the capping fare) and every later trip
// in the same window is free. A window opens on the first eligible trip and
// lasts until a trip falls D or more calendar days after that opening trip.
package farecap

import (
	"fmt"
	"time"

	"github.com/kkysen/omny-summary/internal/history"
	"github.com/kkysen/omny-summary/internal/money"
	"github.com/kkysen/omny-summary/internal/stats"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// FareCap is a spending cap over a window of days
type FareCap struct {
	Days int
	Cap  decimal.Decimal
	Fare decimal.Decimal

	// Trips is the number of paid trips needed to reach the cap,
	// ceil(Cap / Fare).
	Trips int
	// LastFare is charged on the trip that reaches the cap.
	LastFare decimal.Decimal
}

// New derives a FareCap from its window, cap amount and fixed fare.
func New(days int, amount, fare decimal.Decimal) (FareCap, error) {
	if days < 1 {
		return FareCap{}, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	if !amount.IsPositive() {
		return FareCap{}, fmt.Errorf("%w: %s", ErrInvalidCap, amount)
	}
	if !fare.IsPositive() {
		return FareCap{}, fmt.Errorf("%w: %s", ErrInvalidFare, fare)
	}

	// amount = fare*full + rem, exactly
	full, rem := amount.QuoRem(fare, 0)
	trips := int(full.IntPart())
	lastFare := fare
	if !rem.IsZero() {
		trips++
		lastFare = rem
	}

	return FareCap{
		Days:     days,
		Cap:      amount,
		Fare:     fare,
		Trips:    trips,
		LastFare: lastFare,
	}, nil
}

// CappedFare returns the fare charged for the n-th trip (1-based) of a window.
func (c FareCap) CappedFare(n int) decimal.Decimal {
	switch {
	case n < c.Trips:
		return c.Fare
	case n == c.Trips:
		return c.LastFare
	default:
		return decimal.Zero
	}
}

func (c FareCap) String() string {
	return fmt.Sprintf("$%s per %d days", c.Cap, c.Days)
}

// Window summarizes one cap window of a simulation
type Window struct {
	Start        time.Time
	Trips        int
	UncappedFare decimal.Decimal
	CappedFare   decimal.Decimal
}

// Capped reports whether the window reached its cap.
func (w Window) Capped(c FareCap) bool {
	return w.Trips >= c.Trips
}

// Result is the outcome of replaying a trip history under a cap
type Result struct {
	Cap          FareCap
	UncappedFare decimal.Decimal
	CappedFare   decimal.Decimal
	CapsHit      int
	Windows      []Window
}

// FareSaved is the difference between the uncapped and capped totals.
func (r Result) FareSaved() decimal.Decimal {
	return r.UncappedFare.Sub(r.CappedFare)
}

// FareSavedPercent is FareSaved as a percentage of the uncapped total.
func (r Result) FareSavedPercent() decimal.Decimal {
	return money.Percent(r.FareSaved(), r.UncappedFare)
}

// TripsPerWindow summarizes how many eligible trips each window held.
func (r Result) TripsPerWindow() stats.Running {
	var s stats.Running
	for _, w := range r.Windows {
		s.Add(float64(w.Trips))
	}
	return s
}

func (r Result) String() string {
	return fmt.Sprintf("%s capped to %s (%s saved, %s%%) with %d caps using a fare cap of %s",
		money.Format(r.UncappedFare),
		money.Format(r.CappedFare),
		money.Format(r.FareSaved()),
		money.FormatPercent(r.FareSavedPercent()),
		r.CapsHit,
		r.Cap,
	)
}

// Simulate replays trips, which must be in chronological order, under the
// cap. Trips whose product type is not in eligible are skipped. Every
// eligible trip is priced at the fixed fare regardless of what was actually
// charged.
func (c FareCap) Simulate(trips []history.Trip, eligible map[string]bool) Result {
	result := Result{
		Cap:          c,
		UncappedFare: decimal.Zero,
		CappedFare:   decimal.Zero,
	}

	var window *Window
	for _, trip := range trips {
		if !eligible[trip.ProductType] {
			continue
		}

		if window == nil || daysBetween(window.Start, trip.Time) >= c.Days {
			result.Windows = append(result.Windows, Window{
				Start:        trip.Time,
				UncappedFare: decimal.Zero,
				CappedFare:   decimal.Zero,
			})
			window = &result.Windows[len(result.Windows)-1]
		}
		window.Trips++

		capped := c.CappedFare(window.Trips)
		window.UncappedFare = window.UncappedFare.Add(c.Fare)
		window.CappedFare = window.CappedFare.Add(capped)
		result.UncappedFare = result.UncappedFare.Add(c.Fare)
		result.CappedFare = result.CappedFare.Add(capped)
	}

	for _, w := range result.Windows {
		if w.Capped(c) {
			result.CapsHit++
		}
	}

	perWindow := result.TripsPerWindow()
	log.WithFields(log.Fields{
		"cap":          c.String(),
		"windows":      len(result.Windows),
		"caps_hit":     result.CapsHit,
		"trips_mean":   fmt.Sprintf("%.2f", perWindow.Mean),
		"trips_stddev": fmt.Sprintf("%.2f", perWindow.StdDev()),
		"trips_max":    perWindow.Max,
	}).Debug("Fare cap simulated")

	return result
}

// daysBetween counts calendar days from the local date of a to the local
// date of b, ignoring the time of day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
