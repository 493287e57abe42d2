package domain

import (
	"fmt"
	"time"
)

// Period is an analytics lookback window
type Period string

// Supported lookback windows
const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
)

// DefaultPeriod is used when the caller does not pick one
const DefaultPeriod = Period30d

// Periods lists every supported window
var Periods = []Period{Period7d, Period30d, Period90d}

// ParsePeriod maps a query value onto a Period; empty means DefaultPeriod
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return DefaultPeriod, nil
	case Period7d, Period30d, Period90d:
		return Period(s), nil
	}
	return "", NewError(ErrValidation, fmt.Sprintf("Invalid period %q, expected one of 7d, 30d, 90d", s))
}

// Days returns the window length in days
func (p Period) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period90d:
		return 90
	}
	return 30
}

// Window is a closed time interval [From, To]
type Window struct {
	From time.Time
	To   time.Time
}

// WindowEnding returns the window of p that ends at now
func (p Period) WindowEnding(now time.Time) Window {
	return Window{From: now.AddDate(0, 0, -p.Days()), To: now}
}

// Contains reports whether t lies inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// DailyClicks is one bucket of the click histogram
type DailyClicks struct {
	Date  string `json:"_id"`   // UTC day, YYYY-MM-DD
	Count int64  `json:"count"` // Clicks that day
}

// TargetCount is a click count grouped by clicked entity
type TargetCount struct {
	TargetID string
	Count    int64
}

// TopLink is a link ranked by clicks inside the window
type TopLink struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

// TopProduct is a product ranked by its lifetime counter
type TopProduct struct {
	ID         string `json:"_id"`
	Title      string `json:"title"`
	ProductURL string `json:"productUrl"`
	Clicks     int64  `json:"clicks"`
}

// Analytics is the composed analytics summary of one owner
type Analytics struct {
	Period       Period        `json:"period"`
	TotalClicks  int64         `json:"totalClicks"`
	TotalLinks   int64         `json:"totalLinks"`
	ClicksByDate []DailyClicks `json:"clicksByDate"`
	TopLinks     []TopLink     `json:"topLinks"`
	TopProducts  []TopProduct  `json:"topProducts"`
}
