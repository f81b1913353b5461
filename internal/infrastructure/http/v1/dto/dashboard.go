// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"fmt"
	"time"

	"saleslens/internal/domain/analytics"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DashboardFilterRequest carries the common filter query parameters.
type DashboardFilterRequest struct {
	StoreIDs    []int64 `form:"store_id" json:"store_ids"`
	SubBrandIDs []int64 `form:"sub_brand_id" json:"sub_brand_ids"`
	ChannelIDs  []int64 `form:"channel_id" json:"channel_ids"`
	DateFrom    string  `form:"date_from" json:"date_from"`
	DateTo      string  `form:"date_to" json:"date_to"`
}

// ToFilter converts the request into a domain filter.
// Dates are ISO 8601 calendar dates.
func (r *DashboardFilterRequest) ToFilter() (analytics.Filter, error) {
	f := analytics.Filter{
		StoreIDs:    r.StoreIDs,
		SubBrandIDs: r.SubBrandIDs,
		ChannelIDs:  r.ChannelIDs,
	}

	if r.DateFrom != "" {
		t, err := time.Parse(DateLayout, r.DateFrom)
		if err != nil {
			return analytics.Filter{}, fmt.Errorf("invalid date_from %q: expected YYYY-MM-DD", r.DateFrom)
		}
		f.DateFrom = &t
	}
	if r.DateTo != "" {
		t, err := time.Parse(DateLayout, r.DateTo)
		if err != nil {
			return analytics.Filter{}, fmt.Errorf("invalid date_to %q: expected YYYY-MM-DD", r.DateTo)
		}
		f.DateTo = &t
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return analytics.Filter{}, fmt.Errorf("date_to must not be before date_from")
	}

	return f, nil
}

// MetricQueryRequest is the body of POST /dashboard/query.
type MetricQueryRequest struct {
	MetricIDs []string `json:"metric_ids" binding:"required"`
	DashboardFilterRequest
	GroupBy string `json:"group_by"`
}

// MetricOptionResponse is one entry of the metric catalog.
type MetricOptionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// FromDefinitions converts catalog definitions to the wire shape.
func FromDefinitions(defs []analytics.Definition) []MetricOptionResponse {
	out := make([]MetricOptionResponse, len(defs))
	for i, d := range defs {
		out[i] = MetricOptionResponse{ID: d.ID, Description: d.Description}
	}
	return out
}

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// NewSuccess wraps data in the success envelope.
func NewSuccess(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}
