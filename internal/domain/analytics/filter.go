package analytics

import "time"

// Filter is the canonical filter set applied to every metric query.
// All fields are optional; an empty filter matches every completed sale.
type Filter struct {
	// StoreIDs restricts to explicitly selected stores.
	StoreIDs []int64

	// SubBrandIDs restricts by sub-brand. Combined with StoreIDs this is an
	// intersection: a sale qualifies only if its store is selected AND that
	// store belongs to a selected sub-brand. Alone it is a union across the
	// sale's direct sub_brand_id and its store's sub-brand.
	SubBrandIDs []int64

	// ChannelIDs restricts to sales channels (in-store, delivery platforms).
	ChannelIDs []int64

	// DateFrom/DateTo bound created_at, inclusive on both ends.
	// DateTo is treated as end-of-day.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Normalize returns a copy with id lists de-duplicated and non-positive
// ids dropped. Input order is preserved.
func (f Filter) Normalize() Filter {
	f.StoreIDs = normalizeIDs(f.StoreIDs)
	f.SubBrandIDs = normalizeIDs(f.SubBrandIDs)
	f.ChannelIDs = normalizeIDs(f.ChannelIDs)
	return f
}

// HasDateRange reports whether both period bounds are set.
func (f Filter) HasDateRange() bool {
	return f.DateFrom != nil && f.DateTo != nil
}

func normalizeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
