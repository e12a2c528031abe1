package reporting

import (
	"time"

	"trade-journal-lab/internal/domain"
)

// Report is a render-ready snapshot of the journal's analytics.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Filter used for the run; nil means the whole journal.
	Filter *domain.AnalyticsFilter

	// Analytics is the full aggregation result.
	Analytics *domain.AnalyticsData
}
