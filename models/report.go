// models/report.go
package models

// AnalyticsReport is computed fresh on every request and never stored.
type AnalyticsReport struct {
	TotalPageViews int             `json:"totalPageViews"`
	UniqueSessions int             `json:"uniqueSessions"`
	TopPages       []PageCount     `json:"topPages"`
	DailyData      []DailyCount    `json:"dailyData"`
	TrafficSources []TrafficSource `json:"trafficSources"`
	EssayViews     []PageCount     `json:"essayViews"`
}

type PageCount struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DailyCount is one UTC calendar day. Date is formatted as 2006-01-02.
type DailyCount struct {
	Date     string `json:"date"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

// TrafficSource carries a referrer bucket and its rounded share (0-100) of all views.
type TrafficSource struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}
