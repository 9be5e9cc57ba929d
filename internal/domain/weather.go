package domain

import (
	"strings"
	"time"
)

// RandomSource yields uniform draws in [0, 1).
// *math/rand/v2.Rand satisfies it; tests inject a fixed value.
type RandomSource interface {
	Float64() float64
}

// Confidence grades how far a projection reaches into the future.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ConfidenceFor maps days ahead to a confidence tier.
func ConfidenceFor(daysAhead int) Confidence {
	switch {
	case daysAhead <= 3:
		return ConfidenceHigh
	case daysAhead <= 7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

const (
	DustLow      = "Low"
	DustModerate = "Moderate"
)

// ForecastRainy is the label forced onto projections in the rainy season.
const ForecastRainy = "rainy"

// Labels that the rainy-season override leaves in place.
var severeForecasts = map[string]struct{}{
	"snowy":        {},
	"stormy":       {},
	"thunderstorm": {},
}

// ProjectedWeather is a date-adjusted estimate derived from a RegionBaseline.
type ProjectedWeather struct {
	Region            string     `json:"region"`
	TemperatureC      int        `json:"temperature"`
	// SeasonalC is the baseline after the seasonal shift, before jitter and rounding.
	SeasonalC         float64    `json:"-"`
	Forecast          string     `json:"forecast"`
	HumidityPercent   int        `json:"humidity"`
	WindSpeedKmh      int        `json:"wind_speed_kmh"`
	PressureHPa       int        `json:"pressure_hpa"`
	RainChancePercent int        `json:"rain_chance"`
	SnowChancePercent int        `json:"snow_chance"`
	Dust              string     `json:"dust"`
	Confidence        Confidence `json:"confidence"`
	DaysFromToday     int        `json:"days_from_today"`
	Season            Season     `json:"season"`
	RainySeason       bool       `json:"rainy_season"`
	WinterHighlands   bool       `json:"winter_highlands"`
}

// ProjectWeather simulates the weather at target from the baseline. It draws from
// rnd four times, in order: temperature jitter, pressure, rain chance, snow chance.
func ProjectWeather(base RegionBaseline, target, now time.Time, rnd RandomSource) ProjectedWeather {
	days := DaysUntil(now, target)
	month := target.Month()
	rainy := IsRainySeason(month)
	winter := IsWinterHighlands(month)

	temp := base.TemperatureC
	forecast := base.Forecast
	switch {
	case winter:
		temp -= 3 + 0.1*float64(days)
	case rainy:
		temp += 2
		if _, severe := severeForecasts[strings.ToLower(forecast)]; !severe {
			forecast = ForecastRainy
		}
	}
	seasonal := temp
	temp += (rnd.Float64() - 0.5) * (float64(days) * 0.2)

	humidity := base.HumidityPercent
	if rainy {
		humidity += 15
	}
	humidity = min(max(humidity, 30), 90)

	pressure := 1010 + roundHalfUp((rnd.Float64()-0.5)*10)

	rainDraw := rnd.Float64()
	rain := roundHalfUp(10 + 20*rainDraw)
	if rainy {
		rain = roundHalfUp(40 + 40*rainDraw)
	}

	snowDraw := rnd.Float64()
	snow := 0
	if winter {
		snow = roundHalfUp(30 * snowDraw)
	}

	dust := DustLow
	if days > 30 {
		dust = DustModerate
	}

	return ProjectedWeather{
		Region:            base.Region,
		TemperatureC:      roundHalfUp(temp),
		SeasonalC:         seasonal,
		Forecast:          forecast,
		HumidityPercent:   roundHalfUp(humidity),
		WindSpeedKmh:      roundHalfUp(8 + 0.1*float64(days)),
		PressureHPa:       pressure,
		RainChancePercent: rain,
		SnowChancePercent: snow,
		Dust:              dust,
		Confidence:        ConfidenceFor(days),
		DaysFromToday:     days,
		Season:            SeasonOf(month),
		RainySeason:       rainy,
		WinterHighlands:   winter,
	}
}

// FeelsLikeC is the apparent temperature shown next to the projection.
func (w ProjectedWeather) FeelsLikeC() int {
	return w.TemperatureC + 2
}
