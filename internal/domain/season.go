package domain

import (
	"math"
	"time"
)

// Season is a Southern Hemisphere calendar season.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
)

// SeasonOf classifies a calendar month. It is total over the twelve months.
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February, time.March:
		return SeasonSummer
	case time.April, time.May, time.June:
		return SeasonAutumn
	case time.July, time.August, time.September:
		return SeasonWinter
	default:
		return SeasonSpring
	}
}

// IsRainySeason reports whether m falls in the December–April wet season.
func IsRainySeason(m time.Month) bool {
	return m == time.December || m <= time.April
}

// IsWinterHighlands reports whether m falls in the June–October highland winter.
func IsWinterHighlands(m time.Month) bool {
	return m >= time.June && m <= time.October
}

// DaysUntil returns the whole days from now to target, rounded up.
// Past targets give zero or negative values.
func DaysUntil(now, target time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// roundHalfUp rounds x to the nearest integer with halves going toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
