package analytics

// DimensionKey identifies a grouping dimension for the combined aggregate
// statement. The concrete SQL expression and required joins are resolved by
// the storage layer.
type DimensionKey string

const (
	DimensionNone               DimensionKey = ""
	DimensionStoreID            DimensionKey = "store_id"
	DimensionChannelID          DimensionKey = "channel_id"
	DimensionDayOfWeek          DimensionKey = "day_of_week"
	DimensionHourOfDay          DimensionKey = "hour_of_day"
	DimensionProductID          DimensionKey = "product_id"
	DimensionProductName        DimensionKey = "product_name"
	DimensionRegistrationOrigin DimensionKey = "registration_origin"
	DimensionCourierType        DimensionKey = "courier_type"
	DimensionCategoryID         DimensionKey = "category_id"
	DimensionDiscountReason     DimensionKey = "discount_reason"
)

var dimensionKeys = []DimensionKey{
	DimensionStoreID,
	DimensionChannelID,
	DimensionDayOfWeek,
	DimensionHourOfDay,
	DimensionProductID,
	DimensionProductName,
	DimensionRegistrationOrigin,
	DimensionCourierType,
	DimensionCategoryID,
	DimensionDiscountReason,
}

// Chronological reports whether grouped rows are ordered by the dimension
// value ascending (time-of-day style dimensions) instead of by the first
// metric descending.
func (k DimensionKey) Chronological() bool {
	return k == DimensionHourOfDay || k == DimensionDayOfWeek
}
