// Package analytics_repo provides the PostgreSQL implementation of the
// analytics query engine: predicate composition, the combined aggregate
// statement and every dedicated complex-metric query.
package analytics_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"saleslens/internal/domain/analytics"
	"saleslens/internal/infrastructure/storage/postgres"
	"saleslens/pkg/logger"
)

var tracer = otel.Tracer("saleslens/analytics")

// AnalyticsRepo implements analytics.Repository.
type AnalyticsRepo struct {
	db         pgxscan.Querier
	builder    squirrel.StatementBuilderType
	dimensions map[analytics.DimensionKey]dimensionSpec
	cfg        analytics.Config
}

// NewAnalyticsRepo creates the repository over a pooled connection.
func NewAnalyticsRepo(pool *postgres.Pool, cfg analytics.Config) *AnalyticsRepo {
	return &AnalyticsRepo{
		db:         pool.Pool,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		dimensions: newDimensionSpecs(),
		cfg:        cfg,
	}
}

// selectRows builds q and scans all rows into dest. Failing statements are
// logged with their SQL and parameters for diagnosis.
func (r *AnalyticsRepo) selectRows(ctx context.Context, op string, dest any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	ctx, span := tracer.Start(ctx, "analytics."+op,
		trace.WithAttributes(attribute.String("db.statement", sql)))
	defer span.End()

	if err := pgxscan.Select(ctx, r.db, dest, sql, args...); err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "analytics query failed",
			"op", op,
			"sql", sql,
			"args", args,
			"error", err,
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// getRow is selectRows for single-row statements.
func (r *AnalyticsRepo) getRow(ctx context.Context, op string, dest any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	ctx, span := tracer.Start(ctx, "analytics."+op,
		trace.WithAttributes(attribute.String("db.statement", sql)))
	defer span.End()

	if err := pgxscan.Get(ctx, r.db, dest, sql, args...); err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "analytics query failed",
			"op", op,
			"sql", sql,
			"args", args,
			"error", err,
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Ensure interface compliance
var _ analytics.Repository = (*AnalyticsRepo)(nil)
