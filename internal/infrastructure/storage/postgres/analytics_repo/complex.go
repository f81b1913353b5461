package analytics_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"saleslens/internal/domain/analytics"
)

// Row-limit policies.
const (
	topProductsLimit = 10
	churnRiskLimit   = 20
)

// TopSellingProducts returns the ten products with the highest quantity
// sold, with an estimated gross margin derived from the configured cost
// ratio: margin = revenue - base_price * quantity * ratio. The margin rate
// is null when a product produced no revenue.
func (r *AnalyticsRepo) TopSellingProducts(ctx context.Context, f analytics.Filter) ([]analytics.TopProduct, error) {
	marginExpr := "COALESCE(SUM(ps.total_price), 0) - COALESCE(SUM(ps.base_price * ps.quantity), 0) * ?::numeric"

	q := r.builder.
		Select(
			"p.id AS product_id",
			"p.name AS product_name",
			"COALESCE(SUM(ps.quantity), 0)::bigint AS total_quantity_sold",
			"COALESCE(SUM(ps.total_price), 0) AS total_revenue",
			"COUNT(DISTINCT ps.sale_id) AS total_sales_count",
			"COALESCE(AVG(ps.base_price), 0) AS average_price",
		).
		Column(marginExpr+" AS estimated_margin", r.cfg.CostRatio).
		Column("("+marginExpr+") / NULLIF(SUM(ps.total_price), 0) AS margin_rate", r.cfg.CostRatio).
		From("products p").
		JoinClause("JOIN product_sales ps ON ps.product_id = p.id").
		JoinClause("JOIN sales s ON s.id = ps.sale_id").
		Where(salePredicate(f, "s")).
		GroupBy("p.id", "p.name").
		OrderBy("total_quantity_sold DESC").
		Limit(topProductsLimit)

	var items []analytics.TopProduct
	if err := r.selectRows(ctx, "top_selling_products", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// DeliveryPerformance groups completed deliveries by courier type. Rows
// without a duration or courier type are excluded.
func (r *AnalyticsRepo) DeliveryPerformance(ctx context.Context, f analytics.Filter) ([]analytics.CourierPerformance, error) {
	q := r.builder.
		Select(
			"ds.courier_type",
			"COUNT(*) AS deliveries_count",
			"COALESCE(AVG(s.delivery_seconds), 0) AS avg_delivery_seconds",
		).
		From("delivery_sales ds").
		JoinClause("JOIN sales s ON s.id = ds.sale_id").
		Where(salePredicate(f, "s")).
		Where("s.delivery_seconds IS NOT NULL").
		Where("ds.courier_type IS NOT NULL").
		GroupBy("ds.courier_type").
		OrderBy("avg_delivery_seconds DESC")

	var items []analytics.CourierPerformance
	if err := r.selectRows(ctx, "delivery_performance", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// DeliveryProfitability computes, per courier type, collected delivery fees
// minus the courier payout.
func (r *AnalyticsRepo) DeliveryProfitability(ctx context.Context, f analytics.Filter) ([]analytics.CourierProfitability, error) {
	netExpr := "COALESCE(SUM(ds.delivery_fee), 0) - COALESCE(SUM(ds.courier_fee), 0)"

	q := r.builder.
		Select(
			"ds.courier_type",
			"COALESCE(SUM(ds.delivery_fee), 0) AS fees_collected",
			"COALESCE(SUM(ds.courier_fee), 0) AS courier_payout",
			netExpr+" AS net_profit",
			"("+netExpr+") / NULLIF(SUM(ds.delivery_fee), 0) AS margin_rate",
		).
		From("delivery_sales ds").
		JoinClause("JOIN sales s ON s.id = ds.sale_id").
		Where(salePredicate(f, "s")).
		Where("ds.courier_type IS NOT NULL").
		GroupBy("ds.courier_type").
		OrderBy("net_profit DESC")

	var items []analytics.CourierProfitability
	if err := r.selectRows(ctx, "delivery_profitability", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// CustomerOrigins groups sales by customer registration origin.
func (r *AnalyticsRepo) CustomerOrigins(ctx context.Context, f analytics.Filter) ([]analytics.CustomerOrigin, error) {
	q := r.builder.
		Select(
			"c.registration_origin",
			"COUNT(*) AS sales_count",
			"COALESCE(AVG(s.total_amount), 0) AS average_ticket",
			"COALESCE(SUM(s.total_amount), 0) AS total_revenue",
		).
		From("sales s").
		JoinClause("JOIN customers c ON c.id = s.customer_id").
		Where(salePredicate(f, "s")).
		Where("c.registration_origin IS NOT NULL").
		Where("c.registration_origin <> ''").
		GroupBy("c.registration_origin").
		OrderBy("total_revenue DESC")

	var items []analytics.CustomerOrigin
	if err := r.selectRows(ctx, "customer_origin", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// DiscountEffectiveness is restricted to sales with a positive discount and
// a non-empty reason, grouped by reason.
func (r *AnalyticsRepo) DiscountEffectiveness(ctx context.Context, f analytics.Filter) ([]analytics.DiscountReasonStats, error) {
	q := r.builder.
		Select(
			"s.discount_reason",
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(s.total_discount), 0) AS total_discount",
			"COALESCE(SUM(s.total_amount), 0) AS total_revenue",
		).
		From("sales s").
		Where(salePredicate(f, "s")).
		Where("s.total_discount > 0").
		Where("s.discount_reason IS NOT NULL").
		Where("s.discount_reason <> ''").
		GroupBy("s.discount_reason").
		OrderBy("total_revenue DESC")

	var items []analytics.DiscountReasonStats
	if err := r.selectRows(ctx, "discount_effectiveness", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// ChurnRiskCustomers returns the customers most at risk of churning:
// at least the configured number of historical sales, most recent purchase
// at least the configured number of days old, ordered by staleness.
func (r *AnalyticsRepo) ChurnRiskCustomers(ctx context.Context, f analytics.Filter) ([]analytics.ChurnRiskCustomer, error) {
	q := r.builder.
		Select(
			"c.id AS customer_id",
			"c.customer_name",
			"COUNT(*) AS total_sales",
			"COALESCE(AVG(s.total_amount), 0) AS average_ticket",
			"EXTRACT(DAY FROM now() - MAX(s.created_at))::bigint AS days_since_last_purchase",
		).
		From("sales s").
		JoinClause("JOIN customers c ON c.id = s.customer_id").
		Where(salePredicate(f, "s")).
		GroupBy("c.id", "c.customer_name").
		Having(squirrel.Expr("COUNT(*) >= ?", r.cfg.ChurnMinSales)).
		Having(squirrel.Expr("MAX(s.created_at) <= now() - make_interval(days => ?)", r.cfg.ChurnMinDays)).
		OrderBy("days_since_last_purchase DESC").
		Limit(churnRiskLimit)

	var items []analytics.ChurnRiskCustomer
	if err := r.selectRows(ctx, "churn_risk_customers", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// RevenueByHour groups sales by hour of day, chronologically.
func (r *AnalyticsRepo) RevenueByHour(ctx context.Context, f analytics.Filter) ([]analytics.HourlyRevenue, error) {
	q := r.builder.
		Select(
			"EXTRACT(HOUR FROM s.created_at)::int AS hour",
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(s.total_amount), 0) AS total_revenue",
			"COALESCE(AVG(s.total_amount), 0) AS average_ticket",
		).
		From("sales s").
		Where(salePredicate(f, "s")).
		GroupBy("EXTRACT(HOUR FROM s.created_at)").
		OrderBy("hour ASC")

	var items []analytics.HourlyRevenue
	if err := r.selectRows(ctx, "revenue_by_hour", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// RevenueByDayOfWeek groups sales by weekday, Sunday first (Postgres DOW).
func (r *AnalyticsRepo) RevenueByDayOfWeek(ctx context.Context, f analytics.Filter) ([]analytics.WeekdayRevenue, error) {
	dayName := `CASE EXTRACT(DOW FROM s.created_at)
		WHEN 0 THEN 'Sunday'
		WHEN 1 THEN 'Monday'
		WHEN 2 THEN 'Tuesday'
		WHEN 3 THEN 'Wednesday'
		WHEN 4 THEN 'Thursday'
		WHEN 5 THEN 'Friday'
		WHEN 6 THEN 'Saturday'
	END`

	q := r.builder.
		Select(
			"EXTRACT(DOW FROM s.created_at)::int AS day_of_week",
			dayName+" AS day_name",
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(s.total_amount), 0) AS total_revenue",
			"COALESCE(AVG(s.total_amount), 0) AS average_ticket",
		).
		From("sales s").
		Where(salePredicate(f, "s")).
		GroupBy("EXTRACT(DOW FROM s.created_at)").
		OrderBy("day_of_week ASC")

	var items []analytics.WeekdayRevenue
	if err := r.selectRows(ctx, "revenue_by_day", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// SalesByChannel groups sales by channel, revenue descending.
func (r *AnalyticsRepo) SalesByChannel(ctx context.Context, f analytics.Filter) ([]analytics.ChannelSales, error) {
	q := r.builder.
		Select(
			"ch.id AS channel_id",
			"ch.name AS channel_name",
			"ch.type AS channel_type",
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(s.total_amount), 0) AS total_revenue",
			"COALESCE(AVG(s.total_amount), 0) AS average_ticket",
			"COALESCE(SUM(s.delivery_fee), 0) AS total_delivery_fees",
		).
		From("sales s").
		JoinClause("JOIN channels ch ON ch.id = s.channel_id").
		Where(salePredicate(f, "s")).
		GroupBy("ch.id", "ch.name", "ch.type").
		OrderBy("total_revenue DESC")

	var items []analytics.ChannelSales
	if err := r.selectRows(ctx, "sales_by_channel", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// GeographicSales groups sales by store city, revenue descending.
func (r *AnalyticsRepo) GeographicSales(ctx context.Context, f analytics.Filter) ([]analytics.CitySales, error) {
	q := r.builder.
		Select(
			"st.city",
			"st.state",
			"COUNT(*) AS sales_count",
			"COALESCE(SUM(s.total_amount), 0) AS total_revenue",
		).
		From("sales s").
		JoinClause("JOIN stores st ON st.id = s.store_id").
		Where(salePredicate(f, "s")).
		GroupBy("st.city", "st.state").
		OrderBy("total_revenue DESC")

	var items []analytics.CitySales
	if err := r.selectRows(ctx, "geographic_sales", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// RevenueByPayment groups collected payment values by payment method.
func (r *AnalyticsRepo) RevenueByPayment(ctx context.Context, f analytics.Filter) ([]analytics.PaymentRevenue, error) {
	q := r.builder.
		Select(
			"pt.description AS payment_method",
			"COUNT(DISTINCT s.id) AS sales_count",
			"COALESCE(SUM(pay.value), 0) AS total_value",
		).
		From("sales s").
		JoinClause("JOIN payments pay ON pay.sale_id = s.id").
		JoinClause("JOIN payment_types pt ON pt.id = pay.payment_type_id").
		Where(salePredicate(f, "s")).
		GroupBy("pt.description").
		OrderBy("total_value DESC")

	var items []analytics.PaymentRevenue
	if err := r.selectRows(ctx, "revenue_by_payment", &items, q); err != nil {
		return nil, err
	}
	return items, nil
}
