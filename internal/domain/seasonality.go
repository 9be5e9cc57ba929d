package domain

import "time"

// Suitability is the weather fitness tier of a site for a month.
type Suitability string

const (
	SuitabilityExcellent Suitability = "excellent"
	SuitabilityGood      Suitability = "good"
	SuitabilityFair      Suitability = "fair"
	SuitabilityPoor      Suitability = "poor"
)

// SiteSeasonality is the seasonal score of a site category for a month.
type SiteSeasonality struct {
	IsPeakSeason   bool        `json:"is_peak_season"`
	Suitability    Suitability `json:"weather_suitability"`
	Recommendation string      `json:"recommendation"`
}

// IsPeakSeason reports whether m is the high-visitation window for category.
func IsPeakSeason(category string, m time.Month) bool {
	switch category {
	case CategoryBeach, CategoryCoastal:
		return m == time.December || m <= time.March
	case CategoryMountain, CategoryArchaeological:
		return m >= time.June && m <= time.October
	default:
		return m >= time.July && m <= time.September
	}
}

// SuitabilityFor rates category for m. Outside the rainy season every category is excellent.
func SuitabilityFor(category string, m time.Month) Suitability {
	if !IsRainySeason(m) {
		return SuitabilityExcellent
	}
	switch category {
	case CategoryBeach:
		return SuitabilityPoor
	case CategoryMountain:
		return SuitabilityFair
	case CategoryArchaeological:
		return SuitabilityGood
	default:
		return SuitabilityExcellent
	}
}

// ScoreSite combines the peak flag and suitability tier into a recommendation.
func ScoreSite(category string, m time.Month) SiteSeasonality {
	peak := IsPeakSeason(category, m)
	suit := SuitabilityFor(category, m)

	var text string
	switch {
	case suit == SuitabilityPoor:
		text = "Not ideal weather conditions"
	case peak:
		text = "Peak season - expect crowds"
	case suit == SuitabilityExcellent:
		text = "Perfect visiting conditions"
	default:
		text = "Good time to visit"
	}

	return SiteSeasonality{IsPeakSeason: peak, Suitability: suit, Recommendation: text}
}
