package service

import "time"

// Timeframe selects the window of a session leaderboard. TimeframeBeatMarket
// is unbounded like all-time but forces the beat-market sort.
type Timeframe string

const (
	TimeframeDaily      Timeframe = "daily"
	TimeframeWeekly     Timeframe = "weekly"
	TimeframeAllTime    Timeframe = "all_time"
	TimeframeBeatMarket Timeframe = "beat_market"
)

// Metric selects the sort column of a session leaderboard.
type Metric string

const (
	MetricPnl        Metric = "pnl"
	MetricBeatMarket Metric = "beat_market"
)

// periodStart returns the inclusive lower bound on session creation time for
// a timeframe, in the local timezone of now: start of the current day for
// daily, the most recent Sunday midnight for weekly, nil (unbounded)
// otherwise.
func periodStart(tf Timeframe, now time.Time) *time.Time {
	switch tf {
	case TimeframeDaily:
		start := startOfDay(now)
		return &start
	case TimeframeWeekly:
		// Weekday() is 0 on Sunday, so a Sunday maps to its own midnight.
		start := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
		return &start
	default:
		return nil
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
