// analytics/aggregate.go
package analytics

import (
	"math"
	"sort"
	"strings"

	"folio/api/models"
)

const (
	DefaultTopPages      = 10
	DefaultContentPrefix = "/essays/"
	dayLayout            = "2006-01-02"
)

// Options tunes the report shape. Zero values fall back to the defaults.
type Options struct {
	TopPages      int
	ContentPrefix string
	Classifier    *Classifier
}

func (o Options) withDefaults() Options {
	if o.TopPages <= 0 {
		o.TopPages = DefaultTopPages
	}
	if o.ContentPrefix == "" {
		o.ContentPrefix = DefaultContentPrefix
	}
	if o.Classifier == nil {
		o.Classifier = defaultClassifier
	}
	return o
}

// counter keeps per-key counts along with the order keys were first seen,
// so a stable sort breaks ties by encounter order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type dayBucket struct {
	views    int
	sessions map[string]struct{}
}

// Aggregate builds a report from views in a single pass. It holds no state
// between calls and never fails; an empty input yields zero counts and
// empty (non-nil) slices.
func Aggregate(views []models.PageView, opts Options) models.AnalyticsReport {
	opts = opts.withDefaults()

	sessions := make(map[string]struct{})
	paths := newCounter()
	sources := newCounter()
	days := make(map[string]*dayBucket)

	for _, v := range views {
		if v.SessionID != "" {
			sessions[v.SessionID] = struct{}{}
		}

		paths.add(v.Path)

		key := v.CreatedAt.UTC().Format(dayLayout)
		b, ok := days[key]
		if !ok {
			b = &dayBucket{sessions: make(map[string]struct{})}
			days[key] = b
		}
		b.views++
		if v.SessionID != "" {
			b.sessions[v.SessionID] = struct{}{}
		}

		sources.add(opts.Classifier.Classify(v.Referrer))
	}

	topPages := rankPages(paths, opts.TopPages)

	return models.AnalyticsReport{
		TotalPageViews: len(views),
		UniqueSessions: len(sessions),
		TopPages:       topPages,
		DailyData:      dailySeries(days),
		TrafficSources: trafficShares(sources, len(views)),
		EssayViews:     filterPrefix(topPages, opts.ContentPrefix),
	}
}

func rankPages(paths *counter, limit int) []models.PageCount {
	pages := make([]models.PageCount, 0, len(paths.order))
	for _, p := range paths.order {
		pages = append(pages, models.PageCount{Path: p, Views: paths.counts[p]})
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Views > pages[j].Views
	})
	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages
}

func dailySeries(days map[string]*dayBucket) []models.DailyCount {
	series := make([]models.DailyCount, 0, len(days))
	for date, b := range days {
		series = append(series, models.DailyCount{
			Date:     date,
			Views:    b.views,
			Visitors: len(b.sessions),
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

func trafficShares(sources *counter, total int) []models.TrafficSource {
	denom := total
	if denom == 0 {
		denom = 1
	}
	shares := make([]models.TrafficSource, 0, len(sources.order))
	for _, name := range sources.order {
		pct := math.Round(float64(sources.counts[name]) / float64(denom) * 100)
		shares = append(shares, models.TrafficSource{Name: name, Value: int(pct)})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Value > shares[j].Value
	})
	return shares
}

// filterPrefix narrows the already ranked pages; it does not re-rank content
// pages against the full path set.
func filterPrefix(pages []models.PageCount, prefix string) []models.PageCount {
	out := make([]models.PageCount, 0, len(pages))
	for _, p := range pages {
		if strings.HasPrefix(p.Path, prefix) {
			out = append(out, p)
		}
	}
	return out
}
