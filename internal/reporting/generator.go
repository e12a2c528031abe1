package reporting

import (
	"context"
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/observability"
)

// Generator produces reports from stored journal data.
type Generator struct {
	aggregator *analytics.Aggregator
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(aggregator *analytics.Aggregator) *Generator {
	return &Generator{
		aggregator: aggregator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate runs the full aggregation and wraps it in a report.
func (g *Generator) Generate(ctx context.Context, filter *domain.AnalyticsFilter) (*Report, error) {
	data, err := g.aggregator.ComputeAnalytics(ctx, filter)
	if err != nil {
		return nil, err
	}

	observability.RecordReportGenerated()

	return &Report{
		GeneratedAt: g.now(),
		Filter:      filter,
		Analytics:   data,
	}, nil
}
