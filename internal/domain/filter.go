package domain

// AnalyticsFilter narrows the trade set before aggregation. All non-empty
// predicates are AND-combined. A nil filter matches everything.
type AnalyticsFilter struct {
	// DateFrom/DateTo bound the trade open time, Unix milliseconds, inclusive.
	DateFrom *int64
	DateTo   *int64

	AssetClasses []string
	Exchanges    []string
	StrategyIDs  []string
}

// Matches reports whether a trade passes every set predicate.
func (f *AnalyticsFilter) Matches(t *Trade) bool {
	if f == nil {
		return true
	}
	if f.DateFrom != nil && t.OpenedAt < *f.DateFrom {
		return false
	}
	if f.DateTo != nil && t.OpenedAt > *f.DateTo {
		return false
	}
	if len(f.AssetClasses) > 0 && !containsString(f.AssetClasses, t.AssetClass) {
		return false
	}
	if len(f.Exchanges) > 0 && !containsString(f.Exchanges, t.Exchange) {
		return false
	}
	if len(f.StrategyIDs) > 0 && !containsString(f.StrategyIDs, t.StrategyID) {
		return false
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
