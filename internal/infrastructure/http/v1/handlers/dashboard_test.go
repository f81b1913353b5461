package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saleslens/internal/core/apperror"
	"saleslens/internal/domain/analytics"
	"saleslens/internal/infrastructure/http/v1/middleware"
)

// canned repository: every method returns a fixed, minimal payload.
type cannedRepo struct{}

func (cannedRepo) Aggregate(_ context.Context, _ analytics.Filter, _ analytics.DimensionKey, ids []string) ([]analytics.Row, error) {
	row := analytics.Row{}
	for _, id := range ids {
		row[id] = decimal.NewFromInt(100)
	}
	return []analytics.Row{row}, nil
}

func (cannedRepo) Snapshot(context.Context, analytics.Filter) (analytics.Snapshot, error) {
	return analytics.Snapshot{
		TotalRevenue:  decimal.NewFromInt(500),
		TotalSales:    5,
		AverageTicket: decimal.NewFromInt(100),
	}, nil
}

func (cannedRepo) TopSellingProducts(context.Context, analytics.Filter) ([]analytics.TopProduct, error) {
	return nil, nil
}
func (cannedRepo) DeliveryPerformance(context.Context, analytics.Filter) ([]analytics.CourierPerformance, error) {
	return nil, nil
}
func (cannedRepo) DeliveryProfitability(context.Context, analytics.Filter) ([]analytics.CourierProfitability, error) {
	return nil, nil
}
func (cannedRepo) CustomerOrigins(context.Context, analytics.Filter) ([]analytics.CustomerOrigin, error) {
	return nil, nil
}
func (cannedRepo) DiscountEffectiveness(context.Context, analytics.Filter) ([]analytics.DiscountReasonStats, error) {
	return nil, nil
}
func (cannedRepo) ChurnRiskCustomers(context.Context, analytics.Filter) ([]analytics.ChurnRiskCustomer, error) {
	return nil, nil
}
func (cannedRepo) RevenueByHour(context.Context, analytics.Filter) ([]analytics.HourlyRevenue, error) {
	return nil, nil
}
func (cannedRepo) RevenueByDayOfWeek(context.Context, analytics.Filter) ([]analytics.WeekdayRevenue, error) {
	return nil, nil
}
func (cannedRepo) SalesByChannel(context.Context, analytics.Filter) ([]analytics.ChannelSales, error) {
	return nil, nil
}
func (cannedRepo) GeographicSales(context.Context, analytics.Filter) ([]analytics.CitySales, error) {
	return nil, nil
}
func (cannedRepo) RevenueByPayment(context.Context, analytics.Filter) ([]analytics.PaymentRevenue, error) {
	return nil, nil
}

func newDashboardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := analytics.NewService(analytics.NewCatalog(), cannedRepo{})
	h := NewDashboardHandler(NewBaseHandler(), service)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/dashboard/metric-options", h.ListMetricOptions)
	r.POST("/dashboard/query", h.QueryMetrics)
	r.GET("/dashboard/metrics", h.GetOverview)
	r.GET("/dashboard/period-comparison", h.GetPeriodComparison)
	return r
}

func TestListMetricOptionsEnvelope(t *testing.T) {
	r := newDashboardRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/metric-options", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), analytics.MetricTotalRevenue)
}

func TestQueryMetricsSuccess(t *testing.T) {
	r := newDashboardRouter()

	body := `{"metric_ids":["total_revenue","total_sales"],"start_date":"2024-01-01","end_date":"2024-01-31"}`
	req := httptest.NewRequest(http.MethodPost, "/dashboard/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"total_revenue"`)
	assert.Contains(t, w.Body.String(), `"total_sales"`)
}

func TestQueryMetricsMalformedBody(t *testing.T) {
	r := newDashboardRouter()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/query", strings.NewReader(`{"metric_ids":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeValidation)
}

func TestQueryMetricsEmptyIDs(t *testing.T) {
	r := newDashboardRouter()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/query", strings.NewReader(`{"metric_ids":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeValidation)
	assert.Contains(t, w.Body.String(), "at least one metric id is required")
}

func TestGetPeriodComparisonBadDate(t *testing.T) {
	r := newDashboardRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/period-comparison?start_date=not-a-date", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeValidation)
}

func TestGetOverviewSuccess(t *testing.T) {
	r := newDashboardRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/metrics?start_date=2024-01-01&end_date=2024-01-31", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}
