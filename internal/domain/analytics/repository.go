package analytics

import "context"

// Repository defines the read-only data access for the engine. Every method
// routes its filter through the one shared predicate builder so simple and
// complex metrics never diverge in filtering semantics.
type Repository interface {
	// Aggregate executes the combined statement for the requested simple
	// metrics, optionally grouped by dim (DimensionNone for a single row).
	Aggregate(ctx context.Context, f Filter, dim DimensionKey, metricIDs []string) ([]Row, error)

	// Snapshot computes the fixed comparison trio for one period.
	Snapshot(ctx context.Context, f Filter) (Snapshot, error)

	// Dedicated complex-metric queries.
	TopSellingProducts(ctx context.Context, f Filter) ([]TopProduct, error)
	DeliveryPerformance(ctx context.Context, f Filter) ([]CourierPerformance, error)
	DeliveryProfitability(ctx context.Context, f Filter) ([]CourierProfitability, error)
	CustomerOrigins(ctx context.Context, f Filter) ([]CustomerOrigin, error)
	DiscountEffectiveness(ctx context.Context, f Filter) ([]DiscountReasonStats, error)
	ChurnRiskCustomers(ctx context.Context, f Filter) ([]ChurnRiskCustomer, error)
	RevenueByHour(ctx context.Context, f Filter) ([]HourlyRevenue, error)
	RevenueByDayOfWeek(ctx context.Context, f Filter) ([]WeekdayRevenue, error)
	SalesByChannel(ctx context.Context, f Filter) ([]ChannelSales, error)
	GeographicSales(ctx context.Context, f Filter) ([]CitySales, error)
	RevenueByPayment(ctx context.Context, f Filter) ([]PaymentRevenue, error)
}
