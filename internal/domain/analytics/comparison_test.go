package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreviousWindowExplicitRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "seven day window",
			from:     date(2026, 1, 8),
			to:       date(2026, 1, 14),
			wantFrom: date(2026, 1, 1),
			wantTo:   date(2026, 1, 8),
		},
		{
			name:     "single day window",
			from:     date(2026, 3, 10),
			to:       date(2026, 3, 10),
			wantFrom: date(2026, 3, 9),
			wantTo:   date(2026, 3, 10),
		},
		{
			name:     "window crossing month boundary",
			from:     date(2026, 2, 1),
			to:       date(2026, 2, 28),
			wantFrom: date(2026, 1, 4),
			wantTo:   date(2026, 2, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{StoreIDs: []int64{1}, DateFrom: &tt.from, DateTo: &tt.to}
			prev := PreviousWindow(f, date(2026, 6, 15))

			require.True(t, prev.HasDateRange())
			assert.Equal(t, tt.wantFrom, *prev.DateFrom)
			assert.Equal(t, tt.wantTo, *prev.DateTo)
			// Non-date filter fields carry over untouched.
			assert.Equal(t, []int64{1}, prev.StoreIDs)
		})
	}
}

func TestPreviousWindowCalendarMonthFallback(t *testing.T) {
	now := time.Date(2026, 3, 17, 14, 30, 0, 0, time.UTC)
	prev := PreviousWindow(Filter{}, now)

	require.True(t, prev.HasDateRange())
	assert.Equal(t, date(2026, 2, 1), *prev.DateFrom)
	assert.Equal(t, date(2026, 2, 28), *prev.DateTo)
}

func TestPreviousWindowFallbackAcrossYear(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	prev := PreviousWindow(Filter{}, now)

	require.True(t, prev.HasDateRange())
	assert.Equal(t, date(2025, 12, 1), *prev.DateFrom)
	assert.Equal(t, date(2025, 12, 31), *prev.DateTo)
}

func TestComputeGrowth(t *testing.T) {
	current := Snapshot{
		TotalRevenue:  decimal.NewFromInt(1500),
		TotalSales:    30,
		AverageTicket: decimal.NewFromInt(50),
	}
	previous := Snapshot{
		TotalRevenue:  decimal.NewFromInt(1000),
		TotalSales:    25,
		AverageTicket: decimal.NewFromInt(40),
	}

	g := ComputeGrowth(current, previous)

	assert.True(t, g.Revenue.Equal(decimal.NewFromInt(500)), "revenue delta: %s", g.Revenue)
	assert.True(t, g.RevenuePercentage.Equal(decimal.NewFromInt(50)), "revenue pct: %s", g.RevenuePercentage)
	assert.Equal(t, int64(5), g.SalesCount)
	assert.True(t, g.SalesPercentage.Equal(decimal.NewFromInt(20)), "sales pct: %s", g.SalesPercentage)
	assert.True(t, g.AverageTicket.Equal(decimal.NewFromInt(10)), "ticket delta: %s", g.AverageTicket)
	assert.True(t, g.TicketPercentage.Equal(decimal.NewFromInt(25)), "ticket pct: %s", g.TicketPercentage)
}

func TestComputeGrowthZeroPrevious(t *testing.T) {
	current := Snapshot{
		TotalRevenue:  decimal.NewFromInt(800),
		TotalSales:    12,
		AverageTicket: decimal.RequireFromString("66.67"),
	}

	g := ComputeGrowth(current, Snapshot{})

	// Absolute deltas survive, percentages stay 0 instead of dividing by 0.
	assert.True(t, g.Revenue.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, int64(12), g.SalesCount)
	assert.True(t, g.RevenuePercentage.IsZero())
	assert.True(t, g.SalesPercentage.IsZero())
	assert.True(t, g.TicketPercentage.IsZero())
}

func TestComputeGrowthNegative(t *testing.T) {
	current := Snapshot{
		TotalRevenue:  decimal.NewFromInt(500),
		TotalSales:    10,
		AverageTicket: decimal.NewFromInt(50),
	}
	previous := Snapshot{
		TotalRevenue:  decimal.NewFromInt(1000),
		TotalSales:    20,
		AverageTicket: decimal.NewFromInt(50),
	}

	g := ComputeGrowth(current, previous)

	assert.True(t, g.Revenue.Equal(decimal.NewFromInt(-500)))
	assert.True(t, g.RevenuePercentage.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, int64(-10), g.SalesCount)
	assert.True(t, g.TicketPercentage.IsZero())
	assert.True(t, g.AverageTicket.IsZero())
}
