package planner

import (
	"fmt"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

// Sections reported in Missing when their reference data is absent.
const (
	SectionWeather    = "weather"
	SectionSites      = "sites"
	SectionAlerts     = "alerts"
	SectionDepartment = "department"
)

// Peru map defaults.
var (
	PeruCenter = LatLon{Lat: -9.19, Lon: -75.0152}
	MapZoom    = 6
)

// TripInfo echoes the selection a view-model was computed for.
type TripInfo struct {
	Region               string `json:"region"`
	Date                 string `json:"date"`
	DaysAhead            int    `json:"days_ahead"`
	WithinPlanningWindow bool   `json:"within_planning_window"`
}

// WeatherView is the weather widget model.
type WeatherView struct {
	domain.ProjectedWeather
	FeelsLikeC       int    `json:"feels_like"`
	WindSpeedLabel   string `json:"wind_speed"`
	PressureLabel    string `json:"pressure"`
	RainChanceLabel  string `json:"rain_probability"`
	SnowChanceLabel  string `json:"snow_probability"`
	ConfidenceLabel  string `json:"confidence_label"`
	LongRangeWarning bool   `json:"long_range"`
}

func newWeatherView(w domain.ProjectedWeather) WeatherView {
	return WeatherView{
		ProjectedWeather: w,
		FeelsLikeC:       w.FeelsLikeC(),
		WindSpeedLabel:   fmt.Sprintf("%d km/h", w.WindSpeedKmh),
		PressureLabel:    fmt.Sprintf("%d hPa", w.PressureHPa),
		RainChanceLabel:  fmt.Sprintf("%d%%", w.RainChancePercent),
		SnowChanceLabel:  fmt.Sprintf("%d%%", w.SnowChancePercent),
		ConfidenceLabel:  fmt.Sprintf("%s confidence", w.Confidence),
		LongRangeWarning: w.DaysFromToday > longRangeDays,
	}
}

// PackingView is the packing guide widget model.
type PackingView struct {
	domain.PackingAdvice
	TemperatureC int           `json:"temperature"`
	Season       domain.Season `json:"season"`
	DaysAhead    int           `json:"days_ahead"`
	Tip          string        `json:"tip,omitempty"`
}

// AlertsView lists the alerts applicable to a trip.
type AlertsView struct {
	Region    string                 `json:"region"`
	DaysAhead int                    `json:"days_ahead"`
	LongRange bool                   `json:"long_range"`
	Alerts    []domain.EpidemicAlert `json:"alerts"`
}

// SiteCard is one entry of the seasonal site list.
type SiteCard struct {
	domain.TouristSite
	domain.SiteSeasonality
	LongRange bool `json:"long_range"`
}

// LatLon is a WGS-84 coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapMarker pins a site on the map widget.
type MapMarker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	LatLon
}

// MapView is the map widget model.
type MapView struct {
	Center  LatLon      `json:"center"`
	Zoom    int         `json:"zoom"`
	Markers []MapMarker `json:"markers"`
}

// SitesView lists a region's sites scored for the travel month.
type SitesView struct {
	Region string     `json:"region"`
	Month  string     `json:"month"`
	Cards  []SiteCard `json:"sites"`
	Map    MapView    `json:"map"`
}

// Overview is the home page model.
type Overview struct {
	Trip     TripInfo            `json:"trip"`
	Weather  *WeatherView        `json:"weather,omitempty"`
	Packing  *PackingView        `json:"packing,omitempty"`
	Alerts   AlertsView          `json:"alerts"`
	Sites    SitesView           `json:"sites"`
	Charts   domain.WeeklyCharts `json:"charts"`
	Greeting domain.Greeting     `json:"greeting"`
	Missing  []string            `json:"missing"`
}

// SiteDetail is the site page model. It also feeds the PDF trip sheet.
type SiteDetail struct {
	Trip         TripInfo               `json:"trip"`
	Site         domain.TouristSite     `json:"site"`
	Seasonality  domain.SiteSeasonality `json:"seasonality"`
	Weather      *WeatherView           `json:"weather,omitempty"`
	PackingGuide []string               `json:"packing_guide"`
	Highlights   domain.LocalHighlights `json:"highlights"`
	Greeting     domain.Greeting        `json:"greeting"`
	Map          MapView                `json:"map"`
	Missing      []string               `json:"missing"`
}
