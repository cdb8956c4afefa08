// Package report builds and prints the fare summary of a trip history.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/kkysen/omny-summary/internal/config"
	"github.com/kkysen/omny-summary/internal/db"
	"github.com/kkysen/omny-summary/internal/farecap"
	"github.com/kkysen/omny-summary/internal/history"
	"github.com/kkysen/omny-summary/internal/money"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// FutureCard is a speculative what-if projection: a flat discount on the
// total fare plus a bonus for every capped week. It is not a real fare
// product.
type FutureCard struct {
	Savings         decimal.Decimal
	SavingsPercent  decimal.Decimal
	Combined        decimal.Decimal
	CombinedPercent decimal.Decimal
}

// Summary holds everything the report prints
type Summary struct {
	TripCount int
	First     time.Time
	Last      time.Time

	Modes        db.Counts
	ProductTypes db.Counts
	Fares        db.Counts

	// TotalFare is what was actually charged.
	TotalFare decimal.Decimal
	// UncappedFare is every eligible trip at the full fare.
	UncappedFare decimal.Decimal
	// FareSaved is what the card's own weekly cap already saved.
	FareSaved        decimal.Decimal
	FareSavedPercent decimal.Decimal
	// WeeksCapped counts trips charged the weekly capping fare.
	WeeksCapped int

	FutureCard FutureCard
	Results    []farecap.Result
}

// Build loads the history into the trip store and computes the summary.
func Build(ctx context.Context, store *db.DB, h *history.History, cfg *config.Config) (*Summary, error) {
	if len(h.Trips) == 0 {
		return nil, history.ErrEmpty
	}

	importID, err := store.InsertTrips(ctx, h)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"import_id": importID,
		"trips":     len(h.Trips),
	}).Debug("Trips stored")

	s := &Summary{
		TripCount: len(h.Trips),
		First:     h.First().Time,
		Last:      h.Last().Time,
	}

	if s.Modes, err = store.ValueCounts(ctx, importID, db.ColumnMode); err != nil {
		return nil, err
	}
	if s.ProductTypes, err = store.ValueCounts(ctx, importID, db.ColumnProductType); err != nil {
		return nil, err
	}
	if s.Fares, err = store.ValueCounts(ctx, importID, db.ColumnFare); err != nil {
		return nil, err
	}
	for _, counts := range []db.Counts{s.Modes, s.ProductTypes, s.Fares} {
		if n := counts.Total(); n != s.TripCount {
			return nil, fmt.Errorf("trip store counted %d of %d trips", n, s.TripCount)
		}
	}

	fare := cfg.FareAmount()
	caps, err := buildCaps(cfg, fare)
	if err != nil {
		return nil, err
	}

	s.TotalFare = decimal.Zero
	for _, trip := range h.Trips {
		s.TotalFare = s.TotalFare.Add(trip.FareAmount)
	}

	eligibleTrips := 0
	for _, productType := range cfg.EligibleProductTypes {
		n, ok := s.ProductTypes.Get(productType)
		if !ok {
			return nil, fmt.Errorf("%w: product type %q", ErrMissingCategory, productType)
		}
		eligibleTrips += n
	}
	s.UncappedFare = fare.Mul(decimal.NewFromInt(int64(eligibleTrips)))
	s.FareSaved = s.UncappedFare.Sub(s.TotalFare)
	s.FareSavedPercent = money.Percent(s.FareSaved, s.UncappedFare)

	i := cfg.WeeklyCap()
	if i < 0 {
		return nil, config.ErrNoWeeklyCap
	}
	weekly := caps[i]
	cappingFare := money.Format(weekly.LastFare)
	weeks, ok := s.Fares.Get(cappingFare)
	if !ok {
		return nil, fmt.Errorf("%w: fare amount %q", ErrMissingCategory, cappingFare)
	}
	s.WeeksCapped = weeks

	s.FutureCard = projectFutureCard(cfg.FutureCard, s)

	eligible := cfg.Eligible()
	for _, c := range caps {
		s.Results = append(s.Results, c.Simulate(h.Trips, eligible))
	}

	return s, nil
}

func buildCaps(cfg *config.Config, fare decimal.Decimal) ([]farecap.FareCap, error) {
	caps := make([]farecap.FareCap, 0, len(cfg.Caps))
	for _, cc := range cfg.Caps {
		amount, err := decimal.NewFromString(cc.Amount)
		if err != nil {
			return nil, fmt.Errorf("cap %q: %w", cc.Name, err)
		}
		c, err := farecap.New(cc.Days, amount, fare)
		if err != nil {
			return nil, fmt.Errorf("cap %q: %w", cc.Name, err)
		}
		caps = append(caps, c)
	}
	if len(caps) == 0 {
		return nil, config.ErrNoCaps
	}
	return caps, nil
}

func projectFutureCard(cfg config.FutureCardConfig, s *Summary) FutureCard {
	rate := decimal.RequireFromString(cfg.DiscountRate)
	bonus := decimal.RequireFromString(cfg.WeeklyBonus)

	savings := money.RoundCents(rate.Mul(s.TotalFare)).
		Add(bonus.Mul(decimal.NewFromInt(int64(s.WeeksCapped))))
	combined := savings.Add(s.FareSaved)

	return FutureCard{
		Savings:         savings,
		SavingsPercent:  money.Percent(savings, s.TotalFare),
		Combined:        combined,
		CombinedPercent: money.Percent(combined, s.UncappedFare),
	}
}
