// Package analytics provides the dynamic query-composition engine for the
// sales dashboard: metric catalog, filter normalization, grouping dimensions
// and period-over-period comparison.
package analytics

// Kind distinguishes how a metric is computed.
type Kind string

const (
	// KindSimple metrics fold into one combined aggregate statement.
	KindSimple Kind = "simple"
	// KindComplex metrics run their own dedicated query with their own
	// joins, grouping and row-limit policy.
	KindComplex Kind = "complex"
)

// Metric identifiers. Stable ids the frontend maps selections to.
const (
	MetricAverageTicket     = "average_ticket"
	MetricTotalSales        = "total_sales"
	MetricTotalRevenue      = "total_revenue"
	MetricTotalDiscounts    = "total_discounts"
	MetricDeliveryFees      = "delivery_fees"
	MetricPeopleQuantity    = "people_quantity"
	MetricProductionTimeAvg = "production_time_avg"
	MetricDeliveryTimeAvg   = "delivery_time_avg"

	MetricTopSellingProducts    = "top_selling_products"
	MetricRevenueByHour         = "revenue_by_hour"
	MetricRevenueByDay          = "revenue_by_day"
	MetricSalesByChannel        = "sales_by_channel"
	MetricDeliveryPerformance   = "delivery_performance"
	MetricDeliveryProfitability = "delivery_profitability"
	MetricCustomerOrigin        = "customer_origin"
	MetricDiscountEffectiveness = "discount_effectiveness"
	MetricChurnRiskCustomers    = "churn_risk_customers"
	MetricGeographicSales       = "geographic_sales"
	MetricRevenueByPayment      = "revenue_by_payment"
	MetricPeriodComparison      = "period_comparison"
)

// Definition describes one metric in the catalog.
type Definition struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Kind        Kind   `json:"-"`
}

// Catalog is the fixed, read-only metric and dimension registry.
// Built once at startup and passed explicitly to the service.
type Catalog struct {
	defs []Definition
	byID map[string]Definition
	dims map[DimensionKey]struct{}
}

// NewCatalog builds the metric catalog. The returned value is immutable.
func NewCatalog() *Catalog {
	defs := []Definition{
		{ID: MetricAverageTicket, Description: "Average ticket", Kind: KindSimple},
		{ID: MetricTotalSales, Description: "Total number of sales", Kind: KindSimple},
		{ID: MetricTotalRevenue, Description: "Total revenue", Kind: KindSimple},
		{ID: MetricTotalDiscounts, Description: "Total discounts applied", Kind: KindSimple},
		{ID: MetricDeliveryFees, Description: "Total delivery fees collected", Kind: KindSimple},
		{ID: MetricPeopleQuantity, Description: "Total people served", Kind: KindSimple},
		{ID: MetricProductionTimeAvg, Description: "Average production time (s)", Kind: KindSimple},
		{ID: MetricDeliveryTimeAvg, Description: "Average delivery time (s)", Kind: KindSimple},
		{ID: MetricTopSellingProducts, Description: "Top selling products with estimated margin", Kind: KindComplex},
		{ID: MetricRevenueByHour, Description: "Revenue by hour of day", Kind: KindComplex},
		{ID: MetricRevenueByDay, Description: "Revenue by day of week", Kind: KindComplex},
		{ID: MetricSalesByChannel, Description: "Sales by channel (in-store vs delivery)", Kind: KindComplex},
		{ID: MetricDeliveryPerformance, Description: "Delivery duration by courier type", Kind: KindComplex},
		{ID: MetricDeliveryProfitability, Description: "Net delivery profit by courier type", Kind: KindComplex},
		{ID: MetricCustomerOrigin, Description: "Sales by customer registration origin", Kind: KindComplex},
		{ID: MetricDiscountEffectiveness, Description: "Discount effectiveness by reason", Kind: KindComplex},
		{ID: MetricChurnRiskCustomers, Description: "Customers at churn risk", Kind: KindComplex},
		{ID: MetricGeographicSales, Description: "Sales by store city", Kind: KindComplex},
		{ID: MetricRevenueByPayment, Description: "Revenue by payment method", Kind: KindComplex},
		{ID: MetricPeriodComparison, Description: "Comparison against the previous period", Kind: KindComplex},
	}

	byID := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}

	dims := make(map[DimensionKey]struct{}, len(dimensionKeys))
	for _, k := range dimensionKeys {
		dims[k] = struct{}{}
	}

	return &Catalog{defs: defs, byID: byID, dims: dims}
}

// Definitions returns the full catalog in declaration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// SupportsDimension reports whether key is a known grouping dimension.
func (c *Catalog) SupportsDimension(key DimensionKey) bool {
	_, ok := c.dims[key]
	return ok
}
