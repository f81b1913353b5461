package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"saleslens/internal/core/apperror"
)

// Service is the query-engine entry point. It is stateless apart from the
// read-only catalog, so concurrent requests never interfere.
type Service struct {
	catalog *Catalog
	repo    Repository
	now     func() time.Time
}

// NewService creates the analytics service.
func NewService(catalog *Catalog, repo Repository) *Service {
	return &Service{
		catalog: catalog,
		repo:    repo,
		now:     time.Now,
	}
}

// ListAvailableMetrics returns the static metric catalog. No store access.
func (s *Service) ListAvailableMetrics() []Definition {
	return s.catalog.Definitions()
}

// QueryRequest is one engine invocation.
type QueryRequest struct {
	MetricIDs []string
	Filter    Filter
	GroupBy   DimensionKey
}

// QueryMetrics resolves every requested metric id to a tagged outcome.
// Simple metrics fold into one combined aggregate statement; complex metrics
// fan out concurrently. The call fails only on validation errors; store
// failures degrade per metric.
func (s *Service) QueryMetrics(ctx context.Context, req QueryRequest) (Response, error) {
	if len(req.MetricIDs) == 0 {
		return nil, apperror.NewValidation("at least one metric id is required")
	}
	if req.GroupBy != DimensionNone && !s.catalog.SupportsDimension(req.GroupBy) {
		return nil, apperror.NewValidation(fmt.Sprintf("unsupported dimension: %s", req.GroupBy))
	}

	f := req.Filter.Normalize()
	ids := dedupe(req.MetricIDs)

	var simpleIDs, complexIDs []string
	resp := make(Response, len(ids))
	for _, id := range ids {
		def, ok := s.catalog.Lookup(id)
		if !ok {
			resp[id] = &Result{Error: ErrUnsupportedMetricID}
			continue
		}
		if def.Kind == KindSimple {
			simpleIDs = append(simpleIDs, id)
		} else {
			complexIDs = append(complexIDs, id)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	if len(simpleIDs) > 0 {
		g.Go(func() error {
			agg := s.runAggregate(gctx, f, req.GroupBy, simpleIDs)
			mu.Lock()
			defer mu.Unlock()
			for _, id := range simpleIDs {
				r := *agg
				if req.GroupBy == DimensionNone && r.Error == "" && len(r.Data) == 1 {
					if v, ok := decimalValue(r.Data[0][id]); ok {
						r.Value = &v
					}
				}
				resp[id] = &r
			}
			return nil
		})
	}

	for _, id := range complexIDs {
		g.Go(func() error {
			r := s.runComplex(gctx, id, f)
			mu.Lock()
			resp[id] = r
			mu.Unlock()
			return nil
		})
	}

	// Handlers degrade instead of failing, so Wait only synchronizes.
	_ = g.Wait()

	return resp, nil
}

// CompareWithPreviousPeriod computes aggregate snapshots for the current
// filter window and the immediately preceding one, plus growth deltas.
// The two snapshots run concurrently.
func (s *Service) CompareWithPreviousPeriod(ctx context.Context, f Filter) (*PeriodComparison, error) {
	f = f.Normalize()
	prevFilter := PreviousWindow(f, s.now())

	var current, previous Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.repo.Snapshot(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.repo.Snapshot(gctx, prevFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("period comparison: %w", err)
	}

	return &PeriodComparison{
		Current:  current,
		Previous: previous,
		Growth:   ComputeGrowth(current, previous),
	}, nil
}

// Overview is the fixed dashboard bundle returned in one round of
// concurrent queries.
type Overview struct {
	Summary        Snapshot         `json:"summary"`
	TopProducts    []TopProduct     `json:"top_products"`
	RevenueByHour  []HourlyRevenue  `json:"revenue_by_hour"`
	RevenueByDay   []WeekdayRevenue `json:"revenue_by_day"`
	SalesByChannel []ChannelSales   `json:"sales_by_channel"`
}

// GetOverview loads the fixed dashboard bundle for one filter set.
func (s *Service) GetOverview(ctx context.Context, f Filter) (*Overview, error) {
	f = f.Normalize()

	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Summary, err = s.repo.Snapshot(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopProducts, err = s.repo.TopSellingProducts(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		out.RevenueByHour, err = s.repo.RevenueByHour(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		out.RevenueByDay, err = s.repo.RevenueByDayOfWeek(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		out.SalesByChannel, err = s.repo.SalesByChannel(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return &out, nil
}

func (s *Service) runAggregate(ctx context.Context, f Filter, dim DimensionKey, metricIDs []string) *Result {
	rows, err := s.repo.Aggregate(ctx, f, dim, metricIDs)
	if err != nil {
		return &Result{
			ResultType: ResultTypeError,
			Dimension:  string(dim),
			Data:       []Row{},
			Error:      err.Error(),
		}
	}
	resultType := ResultTypeTotal
	if dim != DimensionNone {
		resultType = ResultTypeGrouped
	}
	if rows == nil {
		rows = []Row{}
	}
	return &Result{ResultType: resultType, Dimension: string(dim), Data: rows}
}

func (s *Service) runComplex(ctx context.Context, id string, f Filter) *Result {
	switch id {
	case MetricTopSellingProducts:
		return itemsResult(s.repo.TopSellingProducts(ctx, f))
	case MetricRevenueByHour:
		return itemsResult(s.repo.RevenueByHour(ctx, f))
	case MetricRevenueByDay:
		return itemsResult(s.repo.RevenueByDayOfWeek(ctx, f))
	case MetricSalesByChannel:
		return itemsResult(s.repo.SalesByChannel(ctx, f))
	case MetricDeliveryPerformance:
		return itemsResult(s.repo.DeliveryPerformance(ctx, f))
	case MetricDeliveryProfitability:
		return itemsResult(s.repo.DeliveryProfitability(ctx, f))
	case MetricCustomerOrigin:
		return itemsResult(s.repo.CustomerOrigins(ctx, f))
	case MetricDiscountEffectiveness:
		return itemsResult(s.repo.DiscountEffectiveness(ctx, f))
	case MetricChurnRiskCustomers:
		return itemsResult(s.repo.ChurnRiskCustomers(ctx, f))
	case MetricGeographicSales:
		return itemsResult(s.repo.GeographicSales(ctx, f))
	case MetricRevenueByPayment:
		return itemsResult(s.repo.RevenueByPayment(ctx, f))
	case MetricPeriodComparison:
		cmp, err := s.CompareWithPreviousPeriod(ctx, f)
		if err != nil {
			return &Result{Error: err.Error()}
		}
		return &Result{PeriodComparison: cmp}
	default:
		return &Result{Error: ErrUnsupportedMetricID}
	}
}

// itemsResult wraps a dedicated-query outcome into the uniform tagged form:
// failures carry the reason and an empty item list instead of propagating.
func itemsResult[T any](items []T, err error) *Result {
	if err != nil {
		return &Result{Items: []T{}, Error: err.Error()}
	}
	if items == nil {
		items = []T{}
	}
	return &Result{Items: items}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func decimalValue(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	default:
		return decimal.Zero, false
	}
}
