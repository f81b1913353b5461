package analytics_repo

import (
	"time"

	"github.com/Masterminds/squirrel"

	"saleslens/internal/domain/analytics"
)

const saleStatusCompleted = "COMPLETED"

// salePredicate converts a filter set into the shared ANDed predicate over
// the sales relation aliased as alias. Every metric query, simple or
// complex, goes through here.
//
// Store/sub-brand policy, in priority order:
//   - both selected: intersection - the sale's store must be explicitly
//     selected AND belong to one of the selected sub-brands;
//   - stores only: plain store membership;
//   - sub-brands only: union across the sale's direct sub_brand_id and
//     its store's sub-brand.
//
// The completed-status condition is always appended and cannot be disabled.
func salePredicate(f analytics.Filter, alias string) squirrel.And {
	col := func(name string) string { return alias + "." + name }

	var pred squirrel.And

	switch {
	case len(f.StoreIDs) > 0 && len(f.SubBrandIDs) > 0:
		pred = append(pred,
			squirrel.Expr(col("store_id")+" = ANY(?)", f.StoreIDs),
			squirrel.Expr(col("store_id")+" IN (SELECT id FROM stores WHERE sub_brand_id = ANY(?))", f.SubBrandIDs),
		)
	case len(f.StoreIDs) > 0:
		pred = append(pred, squirrel.Expr(col("store_id")+" = ANY(?)", f.StoreIDs))
	case len(f.SubBrandIDs) > 0:
		pred = append(pred, squirrel.Or{
			squirrel.Expr(col("sub_brand_id")+" = ANY(?)", f.SubBrandIDs),
			squirrel.Expr(col("store_id")+" IN (SELECT id FROM stores WHERE sub_brand_id = ANY(?))", f.SubBrandIDs),
		})
	}

	if len(f.ChannelIDs) > 0 {
		pred = append(pred, squirrel.Expr(col("channel_id")+" = ANY(?)", f.ChannelIDs))
	}

	if f.DateFrom != nil {
		pred = append(pred, squirrel.Expr(col("created_at")+" >= ?", startOfDay(*f.DateFrom)))
	}
	if f.DateTo != nil {
		pred = append(pred, squirrel.Expr(col("created_at")+" <= ?", endOfDay(*f.DateTo)))
	}

	pred = append(pred, squirrel.Expr("upper("+col("sale_status_desc")+") = ?", saleStatusCompleted))

	return pred
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
