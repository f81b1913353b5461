package analytics_repo

import (
	"fmt"

	"saleslens/internal/domain/analytics"
)

// dimensionSpec resolves an abstract grouping key into its SQL expression,
// output alias and the joins the expression depends on. Expressions are
// written against the sales relation aliased as s.
type dimensionSpec struct {
	expr  string
	alias string
	joins []string
}

func newDimensionSpecs() map[analytics.DimensionKey]dimensionSpec {
	joinProductSales := "JOIN product_sales ps ON ps.sale_id = s.id"
	joinProducts := "JOIN products p ON p.id = ps.product_id"

	return map[analytics.DimensionKey]dimensionSpec{
		analytics.DimensionStoreID: {
			expr:  "s.store_id",
			alias: "store_id",
		},
		analytics.DimensionChannelID: {
			expr:  "s.channel_id",
			alias: "channel_id",
		},
		analytics.DimensionDiscountReason: {
			expr:  "s.discount_reason",
			alias: "discount_reason",
		},
		analytics.DimensionHourOfDay: {
			expr:  "EXTRACT(HOUR FROM s.created_at)::int",
			alias: "hour_of_day",
		},
		analytics.DimensionDayOfWeek: {
			expr:  "EXTRACT(DOW FROM s.created_at)::int",
			alias: "day_of_week",
		},
		analytics.DimensionProductID: {
			expr:  "ps.product_id",
			alias: "product_id",
			joins: []string{joinProductSales},
		},
		analytics.DimensionProductName: {
			expr:  "p.name",
			alias: "product_name",
			joins: []string{joinProductSales, joinProducts},
		},
		analytics.DimensionCategoryID: {
			expr:  "cat.id",
			alias: "category_id",
			joins: []string{
				joinProductSales,
				joinProducts,
				"JOIN categories cat ON cat.id = p.category_id",
			},
		},
		analytics.DimensionRegistrationOrigin: {
			expr:  "c.registration_origin",
			alias: "registration_origin",
			joins: []string{"JOIN customers c ON c.id = s.customer_id"},
		},
		analytics.DimensionCourierType: {
			expr:  "ds.courier_type",
			alias: "courier_type",
			joins: []string{"JOIN delivery_sales ds ON ds.sale_id = s.id"},
		},
	}
}

// resolveDimension returns the spec for key. Unsupported keys are rejected
// before any statement is composed.
func (r *AnalyticsRepo) resolveDimension(key analytics.DimensionKey) (dimensionSpec, error) {
	spec, ok := r.dimensions[key]
	if !ok {
		return dimensionSpec{}, fmt.Errorf("unsupported dimension: %s", key)
	}
	return spec, nil
}
