package analytics

import "github.com/shopspring/decimal"

// Config holds tunables for complex metric queries.
type Config struct {
	// CostRatio is the assumed cost share of the base price used for the
	// estimated gross margin of top_selling_products.
	CostRatio decimal.Decimal

	// ChurnMinSales is the minimum historical sales count for a customer to
	// appear in churn_risk_customers.
	ChurnMinSales int

	// ChurnMinDays is the minimum age in days of the most recent purchase.
	ChurnMinDays int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CostRatio:     decimal.NewFromFloat(0.30),
		ChurnMinSales: 3,
		ChurnMinDays:  30,
	}
}
