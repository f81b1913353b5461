package analytics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saleslens/internal/core/apperror"
)

// stubRepo implements Repository with overridable funcs so each test wires
// only what it needs.
type stubRepo struct {
	aggregateFn func(ctx context.Context, f Filter, dim DimensionKey, ids []string) ([]Row, error)
	snapshotFn  func(ctx context.Context, f Filter) (Snapshot, error)
	topFn       func(ctx context.Context, f Filter) ([]TopProduct, error)
	hourFn      func(ctx context.Context, f Filter) ([]HourlyRevenue, error)

	aggregateCalls atomic.Int32
}

func (s *stubRepo) Aggregate(ctx context.Context, f Filter, dim DimensionKey, ids []string) ([]Row, error) {
	s.aggregateCalls.Add(1)
	if s.aggregateFn != nil {
		return s.aggregateFn(ctx, f, dim, ids)
	}
	return []Row{}, nil
}

func (s *stubRepo) Snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	if s.snapshotFn != nil {
		return s.snapshotFn(ctx, f)
	}
	return Snapshot{}, nil
}

func (s *stubRepo) TopSellingProducts(ctx context.Context, f Filter) ([]TopProduct, error) {
	if s.topFn != nil {
		return s.topFn(ctx, f)
	}
	return nil, nil
}

func (s *stubRepo) RevenueByHour(ctx context.Context, f Filter) ([]HourlyRevenue, error) {
	if s.hourFn != nil {
		return s.hourFn(ctx, f)
	}
	return nil, nil
}

func (s *stubRepo) DeliveryPerformance(context.Context, Filter) ([]CourierPerformance, error) {
	return nil, nil
}
func (s *stubRepo) DeliveryProfitability(context.Context, Filter) ([]CourierProfitability, error) {
	return nil, nil
}
func (s *stubRepo) CustomerOrigins(context.Context, Filter) ([]CustomerOrigin, error) {
	return nil, nil
}
func (s *stubRepo) DiscountEffectiveness(context.Context, Filter) ([]DiscountReasonStats, error) {
	return nil, nil
}
func (s *stubRepo) ChurnRiskCustomers(context.Context, Filter) ([]ChurnRiskCustomer, error) {
	return nil, nil
}
func (s *stubRepo) RevenueByDayOfWeek(context.Context, Filter) ([]WeekdayRevenue, error) {
	return nil, nil
}
func (s *stubRepo) SalesByChannel(context.Context, Filter) ([]ChannelSales, error) {
	return nil, nil
}
func (s *stubRepo) GeographicSales(context.Context, Filter) ([]CitySales, error) {
	return nil, nil
}
func (s *stubRepo) RevenueByPayment(context.Context, Filter) ([]PaymentRevenue, error) {
	return nil, nil
}

func newTestService(repo Repository) *Service {
	return NewService(NewCatalog(), repo)
}

func TestListAvailableMetrics(t *testing.T) {
	svc := newTestService(&stubRepo{})

	defs := svc.ListAvailableMetrics()
	require.Len(t, defs, 20)
	assert.Equal(t, MetricAverageTicket, defs[0].ID)
}

func TestQueryMetricsRequiresIDs(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.QueryMetrics(context.Background(), QueryRequest{})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestQueryMetricsRejectsUnknownDimension(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTotalSales},
		GroupBy:   "customer_id",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestQueryMetricsUnknownIDIsTaggedNotFatal(t *testing.T) {
	repo := &stubRepo{
		aggregateFn: func(_ context.Context, _ Filter, _ DimensionKey, ids []string) ([]Row, error) {
			return []Row{{MetricTotalSales: int64(42)}}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTotalSales, "made_up_metric"},
	})
	require.NoError(t, err)
	require.Len(t, resp, 2)

	require.NotNil(t, resp["made_up_metric"])
	assert.Equal(t, ErrUnsupportedMetricID, resp["made_up_metric"].Error)

	require.NotNil(t, resp[MetricTotalSales])
	assert.Empty(t, resp[MetricTotalSales].Error)
}

func TestQueryMetricsCombinesSimpleMetricsIntoOneCall(t *testing.T) {
	var gotIDs []string
	repo := &stubRepo{
		aggregateFn: func(_ context.Context, _ Filter, _ DimensionKey, ids []string) ([]Row, error) {
			gotIDs = ids
			return []Row{{
				MetricTotalSales:   int64(10),
				MetricTotalRevenue: decimal.NewFromInt(990),
			}}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTotalSales, MetricTotalRevenue, MetricTotalSales},
	})
	require.NoError(t, err)

	// Duplicates collapse; both survivors share one combined statement.
	assert.Equal(t, int32(1), repo.aggregateCalls.Load())
	assert.Equal(t, []string{MetricTotalSales, MetricTotalRevenue}, gotIDs)
	require.Len(t, resp, 2)

	sales := resp[MetricTotalSales]
	require.NotNil(t, sales)
	assert.Equal(t, ResultTypeTotal, sales.ResultType)
	require.NotNil(t, sales.Value)
	assert.True(t, sales.Value.Equal(decimal.NewFromInt(10)))

	revenue := resp[MetricTotalRevenue]
	require.NotNil(t, revenue)
	require.NotNil(t, revenue.Value)
	assert.True(t, revenue.Value.Equal(decimal.NewFromInt(990)))
}

func TestQueryMetricsGrouped(t *testing.T) {
	repo := &stubRepo{
		aggregateFn: func(_ context.Context, _ Filter, dim DimensionKey, _ []string) ([]Row, error) {
			assert.Equal(t, DimensionStoreID, dim)
			return []Row{
				{"store_id": int64(1), MetricTotalRevenue: decimal.NewFromInt(500)},
				{"store_id": int64(2), MetricTotalRevenue: decimal.NewFromInt(300)},
			}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTotalRevenue},
		GroupBy:   DimensionStoreID,
	})
	require.NoError(t, err)

	r := resp[MetricTotalRevenue]
	require.NotNil(t, r)
	assert.Equal(t, ResultTypeGrouped, r.ResultType)
	assert.Equal(t, string(DimensionStoreID), r.Dimension)
	assert.Len(t, r.Data, 2)
	assert.Nil(t, r.Value)
}

func TestQueryMetricsStoreFailureDegradesPerMetric(t *testing.T) {
	repo := &stubRepo{
		aggregateFn: func(context.Context, Filter, DimensionKey, []string) ([]Row, error) {
			return nil, errors.New("connection reset")
		},
		topFn: func(context.Context, Filter) ([]TopProduct, error) {
			return []TopProduct{{ProductID: 7, ProductName: "Espresso"}}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTotalSales, MetricTopSellingProducts},
	})
	require.NoError(t, err)

	failed := resp[MetricTotalSales]
	require.NotNil(t, failed)
	assert.Equal(t, ResultTypeError, failed.ResultType)
	assert.Contains(t, failed.Error, "connection reset")
	assert.NotNil(t, failed.Data)

	ok := resp[MetricTopSellingProducts]
	require.NotNil(t, ok)
	assert.Empty(t, ok.Error)
	assert.Len(t, ok.Items, 1)
}

func TestQueryMetricsComplexFailureKeepsEmptyItems(t *testing.T) {
	repo := &stubRepo{
		topFn: func(context.Context, Filter) ([]TopProduct, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTopSellingProducts},
	})
	require.NoError(t, err)

	r := resp[MetricTopSellingProducts]
	require.NotNil(t, r)
	assert.Contains(t, r.Error, "timeout")
	assert.Equal(t, []TopProduct{}, r.Items)
}

func TestQueryMetricsMixedFanOut(t *testing.T) {
	repo := &stubRepo{
		aggregateFn: func(context.Context, Filter, DimensionKey, []string) ([]Row, error) {
			return []Row{{
				MetricTotalSales:    int64(5),
				MetricAverageTicket: decimal.NewFromInt(42),
			}}, nil
		},
		hourFn: func(context.Context, Filter) ([]HourlyRevenue, error) {
			return []HourlyRevenue{{Hour: 12, SalesCount: 3}}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{
			MetricTotalSales,
			MetricAverageTicket,
			MetricRevenueByHour,
			MetricTopSellingProducts,
		},
	})
	require.NoError(t, err)
	require.Len(t, resp, 4)

	// Every requested id is present even when its rows are empty.
	for _, id := range []string{MetricTotalSales, MetricAverageTicket, MetricRevenueByHour, MetricTopSellingProducts} {
		assert.NotNil(t, resp[id], "missing result for %s", id)
	}
	assert.Equal(t, int32(1), repo.aggregateCalls.Load())
}

func TestQueryMetricsNormalizesFilter(t *testing.T) {
	repo := &stubRepo{
		aggregateFn: func(_ context.Context, f Filter, _ DimensionKey, _ []string) ([]Row, error) {
			assert.Equal(t, []int64{4, 2}, f.StoreIDs)
			return []Row{}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricTotalSales},
		Filter:    Filter{StoreIDs: []int64{4, 2, 4, -1}},
	})
	require.NoError(t, err)
}

func TestCompareWithPreviousPeriod(t *testing.T) {
	from := date(2026, 1, 8)
	to := date(2026, 1, 14)

	repo := &stubRepo{
		snapshotFn: func(_ context.Context, f Filter) (Snapshot, error) {
			require.True(t, f.HasDateRange())
			if f.DateFrom.Equal(from) {
				return Snapshot{
					TotalRevenue:  decimal.NewFromInt(1200),
					TotalSales:    24,
					AverageTicket: decimal.NewFromInt(50),
				}, nil
			}
			// Previous window per the derivation rule.
			assert.Equal(t, date(2026, 1, 1), *f.DateFrom)
			assert.Equal(t, from, *f.DateTo)
			return Snapshot{
				TotalRevenue:  decimal.NewFromInt(1000),
				TotalSales:    20,
				AverageTicket: decimal.NewFromInt(50),
			}, nil
		},
	}
	svc := newTestService(repo)

	cmp, err := svc.CompareWithPreviousPeriod(context.Background(), Filter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)

	assert.True(t, cmp.Current.TotalRevenue.Equal(decimal.NewFromInt(1200)))
	assert.True(t, cmp.Previous.TotalRevenue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cmp.Growth.Revenue.Equal(decimal.NewFromInt(200)))
	assert.True(t, cmp.Growth.RevenuePercentage.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, int64(4), cmp.Growth.SalesCount)
}

func TestCompareWithPreviousPeriodPropagatesError(t *testing.T) {
	repo := &stubRepo{
		snapshotFn: func(context.Context, Filter) (Snapshot, error) {
			return Snapshot{}, errors.New("relation does not exist")
		},
	}
	svc := newTestService(repo)

	_, err := svc.CompareWithPreviousPeriod(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestPeriodComparisonAsQueryMetric(t *testing.T) {
	repo := &stubRepo{
		snapshotFn: func(context.Context, Filter) (Snapshot, error) {
			return Snapshot{TotalSales: 1}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.QueryMetrics(context.Background(), QueryRequest{
		MetricIDs: []string{MetricPeriodComparison},
	})
	require.NoError(t, err)

	r := resp[MetricPeriodComparison]
	require.NotNil(t, r)
	require.NotNil(t, r.PeriodComparison)
	assert.Equal(t, int64(1), r.Current.TotalSales)
}

func TestGetOverview(t *testing.T) {
	repo := &stubRepo{
		snapshotFn: func(context.Context, Filter) (Snapshot, error) {
			return Snapshot{TotalSales: 9}, nil
		},
		topFn: func(context.Context, Filter) ([]TopProduct, error) {
			return []TopProduct{{ProductID: 1}}, nil
		},
		hourFn: func(context.Context, Filter) ([]HourlyRevenue, error) {
			return []HourlyRevenue{{Hour: 8}}, nil
		},
	}
	svc := newTestService(repo)

	out, err := svc.GetOverview(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.Summary.TotalSales)
	assert.Len(t, out.TopProducts, 1)
	assert.Len(t, out.RevenueByHour, 1)
}

func TestGetOverviewFailsFast(t *testing.T) {
	repo := &stubRepo{
		snapshotFn: func(context.Context, Filter) (Snapshot, error) {
			return Snapshot{}, errors.New("boom")
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetOverview(context.Background(), Filter{})
	require.Error(t, err)
}

func TestQueryMetricsConcurrentRequests(t *testing.T) {
	repo := &stubRepo{
		aggregateFn: func(ctx context.Context, _ Filter, _ DimensionKey, _ []string) ([]Row, error) {
			select {
			case <-time.After(time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return []Row{{MetricTotalSales: int64(1)}}, nil
		},
	}
	svc := newTestService(repo)

	done := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := svc.QueryMetrics(context.Background(), QueryRequest{
				MetricIDs: []string{MetricTotalSales, MetricRevenueByHour, MetricSalesByChannel},
			})
			done <- err
		}()
	}
	for range 8 {
		require.NoError(t, <-done)
	}
}
