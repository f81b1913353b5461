package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PreviousWindow derives the filter for the immediately preceding period.
//
// With an explicit date range the previous window has the same inclusive
// length and ends where the current one starts: for Jan 8 - Jan 14 (7 days)
// the previous window is Jan 1 - Jan 8. Without a date range it falls back
// to the full previous calendar month relative to now.
func PreviousWindow(f Filter, now time.Time) Filter {
	prev := f
	if f.HasDateRange() {
		days := inclusiveDays(*f.DateFrom, *f.DateTo)
		to := *f.DateFrom
		from := f.DateFrom.AddDate(0, 0, -days)
		prev.DateFrom = &from
		prev.DateTo = &to
		return prev
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := firstOfMonth.AddDate(0, -1, 0)
	to := firstOfMonth.AddDate(0, 0, -1)
	prev.DateFrom = &from
	prev.DateTo = &to
	return prev
}

// inclusiveDays counts calendar days covered by [from, to], both ends
// included. Jan 8 to Jan 14 is 7 days.
func inclusiveDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}

// ComputeGrowth derives absolute and percentage deltas between snapshots.
// A percentage delta is 0 whenever the previous value is 0, regardless of
// the current value.
func ComputeGrowth(current, previous Snapshot) Growth {
	return Growth{
		Revenue:           current.TotalRevenue.Sub(previous.TotalRevenue),
		RevenuePercentage: percentageDelta(current.TotalRevenue, previous.TotalRevenue),
		SalesCount:        current.TotalSales - previous.TotalSales,
		SalesPercentage: percentageDelta(
			decimal.NewFromInt(current.TotalSales),
			decimal.NewFromInt(previous.TotalSales),
		),
		AverageTicket:    current.AverageTicket.Sub(previous.AverageTicket),
		TicketPercentage: percentageDelta(current.AverageTicket, previous.AverageTicket),
	}
}

func percentageDelta(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
