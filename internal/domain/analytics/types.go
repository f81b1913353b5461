package analytics

import (
	"github.com/shopspring/decimal"
)

// Result type tags for the combined aggregate statement.
const (
	ResultTypeTotal   = "total"
	ResultTypeGrouped = "grouped"
	ResultTypeError   = "error"
)

// ErrUnsupportedMetricID marks a requested id absent from the catalog.
const ErrUnsupportedMetricID = "unsupported_metric_id"

// Row is one result row of the combined aggregate statement. Keys are metric
// ids plus, when grouped, the dimension alias. Numeric values are decimals.
type Row = map[string]any

// Result is the tagged per-metric outcome. Exactly one population shape is
// used per metric kind; Error is set instead when the metric degraded.
type Result struct {
	ResultType string `json:"result_type,omitempty"`
	Dimension  string `json:"dimension,omitempty"`

	// Data holds the combined aggregate rows (simple metrics).
	Data []Row `json:"data,omitempty"`

	// Value is the scalar convenience for ungrouped simple metrics.
	Value *decimal.Decimal `json:"value,omitempty"`

	// Items holds a complex metric's dedicated rows.
	Items any `json:"items,omitempty"`

	// Inlined for the period_comparison metric.
	*PeriodComparison

	Error string `json:"error,omitempty"`
}

// Response maps every requested metric id to its outcome. A requested id is
// never silently omitted.
type Response map[string]*Result

// Snapshot is the fixed aggregate trio used for period comparison.
type Snapshot struct {
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	TotalSales    int64           `db:"total_sales" json:"total_sales"`
	AverageTicket decimal.Decimal `db:"average_ticket" json:"average_ticket"`
}

// Growth holds absolute and percentage deltas between two snapshots.
// Percentage deltas are 0 whenever the previous value is 0.
type Growth struct {
	Revenue           decimal.Decimal `json:"revenue"`
	RevenuePercentage decimal.Decimal `json:"revenue_percentage"`
	SalesCount        int64           `json:"sales_count"`
	SalesPercentage   decimal.Decimal `json:"sales_percentage"`
	AverageTicket     decimal.Decimal `json:"average_ticket"`
	TicketPercentage  decimal.Decimal `json:"ticket_percentage"`
}

// PeriodComparison is the current-vs-previous aggregate comparison.
type PeriodComparison struct {
	Current  Snapshot `json:"current"`
	Previous Snapshot `json:"previous"`
	Growth   Growth   `json:"growth"`
}

// --- Complex metric rows ---

// TopProduct is one row of top_selling_products. EstimatedMargin assumes a
// configured cost ratio over the base price; MarginRate is nil when the
// product produced no revenue.
type TopProduct struct {
	ProductID         int64            `db:"product_id" json:"product_id"`
	ProductName       string           `db:"product_name" json:"product_name"`
	TotalQuantitySold int64            `db:"total_quantity_sold" json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal  `db:"total_revenue" json:"total_revenue"`
	TotalSalesCount   int64            `db:"total_sales_count" json:"total_sales_count"`
	AveragePrice      decimal.Decimal  `db:"average_price" json:"average_price"`
	EstimatedMargin   decimal.Decimal  `db:"estimated_margin" json:"estimated_margin"`
	MarginRate        *decimal.Decimal `db:"margin_rate" json:"margin_rate"`
}

// CourierPerformance is one row of delivery_performance.
type CourierPerformance struct {
	CourierType        string          `db:"courier_type" json:"courier_type"`
	DeliveriesCount    int64           `db:"deliveries_count" json:"deliveries_count"`
	AvgDeliverySeconds decimal.Decimal `db:"avg_delivery_seconds" json:"avg_delivery_seconds"`
}

// CourierProfitability is one row of delivery_profitability.
type CourierProfitability struct {
	CourierType   string           `db:"courier_type" json:"courier_type"`
	FeesCollected decimal.Decimal  `db:"fees_collected" json:"fees_collected"`
	CourierPayout decimal.Decimal  `db:"courier_payout" json:"courier_payout"`
	NetProfit     decimal.Decimal  `db:"net_profit" json:"net_profit"`
	MarginRate    *decimal.Decimal `db:"margin_rate" json:"margin_rate"`
}

// CustomerOrigin is one row of customer_origin.
type CustomerOrigin struct {
	RegistrationOrigin string          `db:"registration_origin" json:"registration_origin"`
	SalesCount         int64           `db:"sales_count" json:"sales_count"`
	AverageTicket      decimal.Decimal `db:"average_ticket" json:"average_ticket"`
	TotalRevenue       decimal.Decimal `db:"total_revenue" json:"total_revenue"`
}

// DiscountReasonStats is one row of discount_effectiveness.
type DiscountReasonStats struct {
	DiscountReason string          `db:"discount_reason" json:"discount_reason"`
	SalesCount     int64           `db:"sales_count" json:"sales_count"`
	TotalDiscount  decimal.Decimal `db:"total_discount" json:"total_discount"`
	TotalRevenue   decimal.Decimal `db:"total_revenue" json:"total_revenue"`
}

// ChurnRiskCustomer is one row of churn_risk_customers, most at risk first.
type ChurnRiskCustomer struct {
	CustomerID            int64           `db:"customer_id" json:"customer_id"`
	CustomerName          string          `db:"customer_name" json:"customer_name"`
	TotalSales            int64           `db:"total_sales" json:"total_sales"`
	AverageTicket         decimal.Decimal `db:"average_ticket" json:"average_ticket"`
	DaysSinceLastPurchase int64           `db:"days_since_last_purchase" json:"days_since_last_purchase"`
}

// HourlyRevenue is one row of revenue_by_hour, hours ascending 0-23.
type HourlyRevenue struct {
	Hour          int             `db:"hour" json:"hour"`
	SalesCount    int64           `db:"sales_count" json:"sales_count"`
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	AverageTicket decimal.Decimal `db:"average_ticket" json:"average_ticket"`
}

// WeekdayRevenue is one row of revenue_by_day, weekdays ascending 0-6
// (0 = Sunday, Postgres DOW convention).
type WeekdayRevenue struct {
	DayOfWeek     int             `db:"day_of_week" json:"day_of_week"`
	DayName       string          `db:"day_name" json:"day_name"`
	SalesCount    int64           `db:"sales_count" json:"sales_count"`
	TotalRevenue  decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	AverageTicket decimal.Decimal `db:"average_ticket" json:"average_ticket"`
}

// ChannelSales is one row of sales_by_channel.
type ChannelSales struct {
	ChannelID         int64           `db:"channel_id" json:"channel_id"`
	ChannelName       string          `db:"channel_name" json:"channel_name"`
	ChannelType       string          `db:"channel_type" json:"channel_type"`
	SalesCount        int64           `db:"sales_count" json:"sales_count"`
	TotalRevenue      decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	AverageTicket     decimal.Decimal `db:"average_ticket" json:"average_ticket"`
	TotalDeliveryFees decimal.Decimal `db:"total_delivery_fees" json:"total_delivery_fees"`
}

// CitySales is one row of geographic_sales.
type CitySales struct {
	City         string          `db:"city" json:"city"`
	State        string          `db:"state" json:"state"`
	SalesCount   int64           `db:"sales_count" json:"sales_count"`
	TotalRevenue decimal.Decimal `db:"total_revenue" json:"total_revenue"`
}

// PaymentRevenue is one row of revenue_by_payment.
type PaymentRevenue struct {
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	SalesCount    int64           `db:"sales_count" json:"sales_count"`
	TotalValue    decimal.Decimal `db:"total_value" json:"total_value"`
}
