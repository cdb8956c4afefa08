package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kkysen/omny-summary/internal/db"
	"github.com/kkysen/omny-summary/internal/history"
	"github.com/kkysen/omny-summary/internal/money"
)

// TimeLayout is how trip times are printed
const TimeLayout = "01/02/2006 03:04 PM"

// Print writes the summary as text. The future card projection is included
// only when futureCard is set.
func (s *Summary) Print(w io.Writer, futureCard bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%d Trips\n\n", s.TripCount)

	fmt.Fprintf(&b, "first: %s\n", s.First.Format(TimeLayout))
	fmt.Fprintf(&b, " last: %s\n\n", s.Last.Format(TimeLayout))

	writeCounts(&b, history.ColumnMode, s.Modes)
	writeCounts(&b, history.ColumnProductType, s.ProductTypes)
	writeCounts(&b, history.ColumnFareAmount, s.Fares)

	fmt.Fprintf(&b, "    Total Fare: %s\n", money.Format(s.TotalFare))
	fmt.Fprintf(&b, "  Weeks Capped: %d\n", s.WeeksCapped)
	fmt.Fprintf(&b, "Fare Cap Saved: %s, %s%%\n", money.Format(s.FareSaved), money.FormatPercent(s.FareSavedPercent))
	fmt.Fprintf(&b, " Uncapped Fare: %s\n\n", money.Format(s.UncappedFare))

	if futureCard {
		fc := s.FutureCard
		fmt.Fprintf(&b, "Future Card Savings: %s, %s%%\n", money.Format(fc.Savings), money.FormatPercent(fc.SavingsPercent))
		fmt.Fprintf(&b, "   Combined Savings: %s, %s%%\n\n", money.Format(fc.Combined), money.FormatPercent(fc.CombinedPercent))
	}

	for _, r := range s.Results {
		fmt.Fprintf(&b, "%s\n", r)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeCounts prints a frequency table under its column name, labels left
// aligned and counts right aligned.
func writeCounts(b *strings.Builder, title string, counts db.Counts) {
	labelWidth, countWidth := 0, 0
	for _, c := range counts {
		labelWidth = max(labelWidth, len([]rune(c.Value)))
		countWidth = max(countWidth, len(fmt.Sprint(c.Count)))
	}

	b.WriteString(title)
	b.WriteByte('\n')
	for _, c := range counts {
		pad := labelWidth - len([]rune(c.Value))
		fmt.Fprintf(b, "%s%s    %*d\n", c.Value, strings.Repeat(" ", pad), countWidth, c.Count)
	}
	b.WriteByte('\n')
}
