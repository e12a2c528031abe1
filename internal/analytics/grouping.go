package analytics

import (
	"fmt"
	"sort"
	"time"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
)

// bucketMap is an accumulating map of named aggregates. Time-keyed maps sort
// chronologically by rank at the end; categorical maps sort descending by net
// PnL. No mid-computation ordering matters.
type bucketMap struct {
	stats map[string]*domain.GroupStats
	rank  map[string]int64
}

func newBucketMap() *bucketMap {
	return &bucketMap{
		stats: make(map[string]*domain.GroupStats),
		rank:  make(map[string]int64),
	}
}

func (b *bucketMap) add(key string, rank int64, tr *tradeResult) {
	if key == "" {
		return
	}
	s, ok := b.stats[key]
	if !ok {
		s = &domain.GroupStats{Key: key}
		b.stats[key] = s
		b.rank[key] = rank
	}

	s.NetPnl = s.NetPnl.Add(tr.result.RealizedNetPnl)
	s.Trades++

	if tr.result.IsFullyClosed {
		switch tr.result.Outcome {
		case domain.OutcomeWin:
			s.Wins++
		case domain.OutcomeLoss:
			s.Losses++
		case domain.OutcomeBreakEven:
			s.BreakEvens++
		}
	}
}

// byRank returns the buckets sorted ascending by rank, win rates attached.
func (b *bucketMap) byRank() []domain.GroupStats {
	return b.sorted(func(x, y *domain.GroupStats) bool {
		return b.rank[x.Key] < b.rank[y.Key]
	})
}

// byNetPnlDesc returns the buckets sorted descending by net PnL, key
// ascending on ties for determinism.
func (b *bucketMap) byNetPnlDesc() []domain.GroupStats {
	return b.sorted(func(x, y *domain.GroupStats) bool {
		if !x.NetPnl.Equal(y.NetPnl) {
			return x.NetPnl.GreaterThan(y.NetPnl)
		}
		return x.Key < y.Key
	})
}

func (b *bucketMap) sorted(less func(x, y *domain.GroupStats) bool) []domain.GroupStats {
	if len(b.stats) == 0 {
		return nil
	}
	out := make([]*domain.GroupStats, 0, len(b.stats))
	for _, s := range b.stats {
		if decided := s.Wins + s.Losses; decided > 0 {
			wr := float64(s.Wins) / float64(decided)
			s.WinRate = &wr
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	result := make([]domain.GroupStats, len(out))
	for i, s := range out {
		result[i] = *s
	}
	return result
}

// groupSet holds every grouping dimension of the report.
type groupSet struct {
	byMonth      *bucketMap
	byDayOfWeek  *bucketMap
	byHourOfDay  *bucketMap
	byWeekOfYear *bucketMap
	byAssetClass *bucketMap
	byExchange   *bucketMap
	byDirection  *bucketMap
}

func newGroupSet() *groupSet {
	return &groupSet{
		byMonth:      newBucketMap(),
		byDayOfWeek:  newBucketMap(),
		byHourOfDay:  newBucketMap(),
		byWeekOfYear: newBucketMap(),
		byAssetClass: newBucketMap(),
		byExchange:   newBucketMap(),
		byDirection:  newBucketMap(),
	}
}

// addTrade buckets one trade (open or closed) by the time dimensions of its
// open time and by its categorical dimensions.
func (g *groupSet) addTrade(finCtx *fin.Context, tr *tradeResult) {
	opened := time.UnixMilli(tr.trade.OpenedAt).UTC()

	g.byMonth.add(opened.Format("January 2006"), int64(opened.Year())*100+int64(opened.Month()), tr)
	g.byDayOfWeek.add(opened.Weekday().String(), isoWeekdayRank(opened.Weekday()), tr)
	g.byHourOfDay.add(opened.Format("15"), int64(opened.Hour()), tr)

	isoYear, isoWeek := opened.ISOWeek()
	g.byWeekOfYear.add(fmt.Sprintf("%d-W%02d", isoYear, isoWeek), int64(isoYear)*100+int64(isoWeek), tr)

	g.byAssetClass.add(tr.trade.AssetClass, 0, tr)
	g.byExchange.add(tr.trade.Exchange, 0, tr)
	g.byDirection.add(string(tr.trade.Direction), 0, tr)
}

// finish attaches the sorted groupings and the best/worst extremes.
func (g *groupSet) finish(data *domain.AnalyticsData) {
	data.ByMonth = g.byMonth.byRank()
	data.ByDayOfWeek = g.byDayOfWeek.byRank()
	data.ByHourOfDay = g.byHourOfDay.byRank()
	data.ByWeekOfYear = g.byWeekOfYear.byRank()
	data.ByAssetClass = g.byAssetClass.byNetPnlDesc()
	data.ByExchange = g.byExchange.byNetPnlDesc()
	data.ByDirection = g.byDirection.byNetPnlDesc()

	data.BestMonth, data.WorstMonth = bestAndWorst(data.ByMonth)
	data.BestDay, data.WorstDay = bestAndWorst(data.ByDayOfWeek)
}

func bestAndWorst(groups []domain.GroupStats) (best, worst *domain.GroupStats) {
	if len(groups) == 0 {
		return nil, nil
	}
	b, w := groups[0], groups[0]
	for _, s := range groups[1:] {
		if s.NetPnl.GreaterThan(b.NetPnl) {
			b = s
		}
		if s.NetPnl.LessThan(w.NetPnl) {
			w = s
		}
	}
	return &b, &w
}

// isoWeekdayRank orders Monday first, Sunday last.
func isoWeekdayRank(d time.Weekday) int64 {
	if d == time.Sunday {
		return 7
	}
	return int64(d)
}
