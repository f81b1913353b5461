package handlers

import (
	"github.com/gin-gonic/gin"

	"saleslens/internal/core/apperror"
	"saleslens/internal/domain/analytics"
	"saleslens/internal/infrastructure/http/v1/dto"
)

// DashboardHandler handles HTTP requests for sales analytics.
type DashboardHandler struct {
	*BaseHandler
	service *analytics.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *analytics.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListMetricOptions handles GET /dashboard/metric-options
func (h *DashboardHandler) ListMetricOptions(c *gin.Context) {
	defs := h.service.ListAvailableMetrics()
	h.OK(c, dto.NewSuccess(dto.FromDefinitions(defs)))
}

// QueryMetrics handles POST /dashboard/query
func (h *DashboardHandler) QueryMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.MetricQueryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	resp, err := h.service.QueryMetrics(ctx, analytics.QueryRequest{
		MetricIDs: req.MetricIDs,
		Filter:    filter,
		GroupBy:   analytics.DimensionKey(req.GroupBy),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewSuccess(resp))
}

// GetOverview handles GET /dashboard/metrics
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	overview, err := h.service.GetOverview(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewSuccess(overview))
}

// GetPeriodComparison handles GET /dashboard/period-comparison
func (h *DashboardHandler) GetPeriodComparison(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	comparison, err := h.service.CompareWithPreviousPeriod(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewSuccess(comparison))
}

func (h *DashboardHandler) bindFilter(c *gin.Context) (analytics.Filter, bool) {
	var req dto.DashboardFilterRequest
	if !h.BindQuery(c, &req) {
		return analytics.Filter{}, false
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return analytics.Filter{}, false
	}

	return filter, true
}
