package domain

import "time"

// RegionBaseline is the static reference weather for a Peruvian region.
type RegionBaseline struct {
	Region          string  `json:"region"`
	TemperatureC    float64 `json:"temperature"`
	Forecast        string  `json:"forecast"`
	HumidityPercent float64 `json:"humidity"`
}

// Site categories with dedicated seasonal rules. Any other category falls back
// to the general rules.
const (
	CategoryArchaeological = "Archaeological"
	CategoryMountain       = "Mountain"
	CategoryBeach          = "Beach"
	CategoryCoastal        = "Coastal"
)

// TouristSite is an entry of the static site catalogue.
type TouristSite struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// RiskLevel grades an epidemic alert.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Valid reports whether r is one of the four known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// EpidemicAlert is a static health advisory attached to a region.
type EpidemicAlert struct {
	Region             string    `json:"region"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RiskLevel          RiskLevel `json:"risk_level"`
	AffectedAreas      []string  `json:"affected_areas"`
	PreventionMeasures []string  `json:"prevention_measures"`
	Symptoms           []string  `json:"symptoms"`
}

// ClimateProfile lists what to do and eat in a department for one temperature regime.
type ClimateProfile struct {
	Activities []string `json:"activities"`
	Foods      []string `json:"foods"`
}

// DepartmentProfile pairs the hot and cold regimes of a department.
type DepartmentProfile struct {
	Department string         `json:"department"`
	Hot        ClimateProfile `json:"hot"`
	Cold       ClimateProfile `json:"cold"`
}

// Trip is the user's selection. It is passed explicitly to every computation.
type Trip struct {
	Region string
	Date   time.Time
}

// Place is a place-search hit.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// FavoriteSite is the summary of a site saved by the user. Unique by ID.
type FavoriteSite struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Region      string    `json:"region"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	AddedAt     time.Time `json:"added_at"`
}

// FavoriteFromSite builds the stored summary of a catalogue site.
func FavoriteFromSite(site TouristSite, addedAt time.Time) FavoriteSite {
	return FavoriteSite{
		ID:          site.ID,
		Name:        site.Name,
		Region:      site.Region,
		Category:    site.Category,
		Description: site.Description,
		Image:       site.Image,
		AddedAt:     addedAt,
	}
}
