package analytics_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"saleslens/internal/domain/analytics"
)

// simpleMetricExprs maps each simple metric id to its aggregate expression
// over the sales relation. Aliases equal the metric ids so result rows can
// be spread by id.
var simpleMetricExprs = map[string]string{
	analytics.MetricTotalSales:        "COUNT(*)",
	analytics.MetricTotalRevenue:      "COALESCE(SUM(s.total_amount), 0)",
	analytics.MetricAverageTicket:     "COALESCE(AVG(s.total_amount), 0)",
	analytics.MetricTotalDiscounts:    "COALESCE(SUM(s.total_discount), 0)",
	analytics.MetricDeliveryFees:      "COALESCE(SUM(s.delivery_fee), 0)",
	analytics.MetricPeopleQuantity:    "COALESCE(SUM(s.people_quantity), 0)",
	analytics.MetricProductionTimeAvg: "COALESCE(AVG(s.production_seconds), 0)",
	analytics.MetricDeliveryTimeAvg:   "COALESCE(AVG(s.delivery_seconds), 0)",
}

// buildAggregate composes the combined statement for the requested simple
// metrics, optionally grouped by dim.
//
// Grouping policy: time-of-day dimensions are ordered by the dimension value
// ascending, any other dimension by the first requested metric descending.
func (r *AnalyticsRepo) buildAggregate(f analytics.Filter, dim analytics.DimensionKey, metricIDs []string) (squirrel.SelectBuilder, error) {
	q := r.builder.Select()

	if len(metricIDs) == 0 {
		return q, fmt.Errorf("aggregate: no metric ids")
	}

	var spec dimensionSpec
	if dim != analytics.DimensionNone {
		var err error
		spec, err = r.resolveDimension(dim)
		if err != nil {
			return q, fmt.Errorf("aggregate: %w", err)
		}
		q = q.Column(spec.expr + " AS " + spec.alias)
	}

	for _, id := range metricIDs {
		expr, ok := simpleMetricExprs[id]
		if !ok {
			return q, fmt.Errorf("aggregate: not a simple metric: %s", id)
		}
		q = q.Column(expr + " AS " + id)
	}

	q = q.From("sales s")
	for _, join := range spec.joins {
		q = q.JoinClause(join)
	}
	q = q.Where(salePredicate(f, "s"))

	if dim != analytics.DimensionNone {
		q = q.GroupBy(spec.expr)
		if dim.Chronological() {
			q = q.OrderBy(spec.alias + " ASC")
		} else {
			q = q.OrderBy(metricIDs[0] + " DESC")
		}
	}

	return q, nil
}

// Aggregate executes the combined statement and normalizes driver values.
func (r *AnalyticsRepo) Aggregate(ctx context.Context, f analytics.Filter, dim analytics.DimensionKey, metricIDs []string) ([]analytics.Row, error) {
	q, err := r.buildAggregate(f, dim, metricIDs)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := r.selectRows(ctx, "aggregate", &raw, q); err != nil {
		return nil, err
	}

	rows := make([]analytics.Row, len(raw))
	for i, m := range raw {
		rows[i] = normalizeRow(m)
	}
	return rows, nil
}

// Snapshot computes the fixed comparison trio in one statement.
func (r *AnalyticsRepo) Snapshot(ctx context.Context, f analytics.Filter) (analytics.Snapshot, error) {
	q := r.builder.
		Select(
			simpleMetricExprs[analytics.MetricTotalRevenue]+" AS total_revenue",
			simpleMetricExprs[analytics.MetricTotalSales]+" AS total_sales",
			simpleMetricExprs[analytics.MetricAverageTicket]+" AS average_ticket",
		).
		From("sales s").
		Where(salePredicate(f, "s"))

	var snap analytics.Snapshot
	if err := r.getRow(ctx, "snapshot", &snap, q); err != nil {
		return analytics.Snapshot{}, err
	}
	return snap, nil
}

// normalizeRow converts driver-level values into the engine's exchange
// types: numerics become decimals so currency aggregates keep full
// precision end to end.
func normalizeRow(m map[string]any) analytics.Row {
	row := make(analytics.Row, len(m))
	for k, v := range m {
		row[k] = normalizeValue(v)
	}
	return row
}

func normalizeValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid {
			return nil
		}
		d, err := numericToDecimal(n)
		if err != nil {
			return nil
		}
		return d
	default:
		return v
	}
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	val, err := n.Value()
	if err != nil {
		return decimal.Zero, err
	}
	switch s := val.(type) {
	case string:
		return decimal.NewFromString(s)
	case []byte:
		return decimal.NewFromString(string(s))
	default:
		return decimal.Zero, fmt.Errorf("unexpected numeric driver value %T", val)
	}
}
