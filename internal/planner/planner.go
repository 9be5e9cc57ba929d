// Package planner composes the seasonal rules into the view-models served to the
// presentation layer. Every computation takes an explicit [domain.Trip]; nothing is
// cached between calls.
package planner

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

const (
	longRangeDays = 30
	tipDays       = 14
)

// Catalog is the read-only reference data the planner draws from.
type Catalog interface {
	Regions() []string
	Baseline(region string) (domain.RegionBaseline, error)
	Site(id string) (domain.TouristSite, error)
	SitesInRegion(region string) []domain.TouristSite
	Alerts(region string) []domain.EpidemicAlert
	Department(name string) (domain.DepartmentProfile, error)
}

// SystemRandom draws from the goroutine-safe top-level math/rand/v2 generator.
type SystemRandom struct{}

func (SystemRandom) Float64() float64 { return rand.Float64() }

// Planner builds view-models for a trip.
type Planner struct {
	catalog Catalog
	clock   clockwork.Clock
	rnd     domain.RandomSource
	loc     *time.Location
	metrics *observability.Metrics
}

// New creates a Planner. Travel dates are interpreted in loc.
func New(catalog Catalog, clock clockwork.Clock, rnd domain.RandomSource, loc *time.Location, metrics *observability.Metrics) *Planner {
	return &Planner{
		catalog: catalog,
		clock:   clock,
		rnd:     rnd,
		loc:     loc,
		metrics: metrics,
	}
}

// Regions lists the selectable regions.
func (p *Planner) Regions() []string {
	return p.catalog.Regions()
}

// TripFor parses the request selection. An empty date means today.
func (p *Planner) TripFor(region, date string) (domain.Trip, error) {
	d, err := domain.ParseTravelDate(date, p.clock, p.loc)
	if err != nil {
		return domain.Trip{}, err
	}
	return domain.Trip{Region: region, Date: d}, nil
}

// Weather projects the trip's weather. An unknown region yields domain.ErrNoData.
func (p *Planner) Weather(trip domain.Trip) (WeatherView, error) {
	p.metrics.Projections.WithLabelValues("weather").Inc()
	w, err := p.project(trip.Region, trip.Date)
	if err != nil {
		return WeatherView{}, err
	}
	return newWeatherView(w), nil
}

// Packing advises what to pack for the trip. An unknown region yields domain.ErrNoData.
func (p *Planner) Packing(trip domain.Trip) (PackingView, error) {
	p.metrics.Projections.WithLabelValues("recommendations").Inc()
	w, err := p.project(trip.Region, trip.Date)
	if err != nil {
		return PackingView{}, err
	}
	return packingView(w), nil
}

// Alerts returns the trip's filtered alerts. Regions without alerts yield an empty list.
func (p *Planner) Alerts(trip domain.Trip) AlertsView {
	p.metrics.Projections.WithLabelValues("alerts").Inc()
	return p.alerts(trip)
}

// Sites scores the region's sites for the travel month.
func (p *Planner) Sites(trip domain.Trip) SitesView {
	p.metrics.Projections.WithLabelValues("sites").Inc()
	return p.sites(trip)
}

// Overview assembles the home page. Sections without reference data are listed in Missing.
func (p *Planner) Overview(trip domain.Trip) Overview {
	p.metrics.Projections.WithLabelValues("overview").Inc()

	ov := Overview{
		Trip:    p.tripInfo(trip),
		Alerts:  p.alerts(trip),
		Sites:   p.sites(trip),
		Charts:  domain.ChartsFor(trip.Region),
		Missing: []string{},
	}

	var temp *int
	if w, err := p.project(trip.Region, trip.Date); err == nil {
		wv := newWeatherView(w)
		pv := packingView(w)
		ov.Weather, ov.Packing = &wv, &pv
		temp = &w.TemperatureC
	} else {
		ov.Missing = append(ov.Missing, SectionWeather)
	}
	if len(ov.Sites.Cards) == 0 {
		p.metrics.NoData.WithLabelValues(SectionSites).Inc()
		ov.Missing = append(ov.Missing, SectionSites)
	}
	if len(ov.Alerts.Alerts) == 0 {
		ov.Missing = append(ov.Missing, SectionAlerts)
	}

	ov.Greeting = domain.GreetingFor(trip.Region, temp, p.rnd)
	return ov
}

// SiteDetail assembles the site page for a travel date. An unknown id yields domain.ErrNoData.
func (p *Planner) SiteDetail(siteID string, date time.Time) (SiteDetail, error) {
	p.metrics.Projections.WithLabelValues("site_detail").Inc()

	site, err := p.catalog.Site(siteID)
	if err != nil {
		p.metrics.NoData.WithLabelValues("site").Inc()
		return SiteDetail{}, err
	}

	trip := domain.Trip{Region: site.Region, Date: date}
	sd := SiteDetail{
		Trip:        p.tripInfo(trip),
		Site:        site,
		Seasonality: domain.ScoreSite(site.Category, date.Month()),
		Map: MapView{
			Center:  LatLon{Lat: site.Lat, Lon: site.Lon},
			Zoom:    MapZoom,
			Markers: []MapMarker{marker(site)},
		},
		Missing: []string{},
	}

	temp := domain.DefaultTemperatureC
	var greetTemp *int
	if w, err := p.project(site.Region, date); err == nil {
		wv := newWeatherView(w)
		sd.Weather = &wv
		temp = w.TemperatureC
		greetTemp = &temp
	} else {
		sd.Missing = append(sd.Missing, SectionWeather)
	}

	sd.PackingGuide = domain.SitePackingGuide(float64(temp), site.Category)

	var profile *domain.DepartmentProfile
	if d, err := p.catalog.Department(site.Region); err == nil {
		profile = &d
	} else {
		p.metrics.NoData.WithLabelValues(SectionDepartment).Inc()
		sd.Missing = append(sd.Missing, SectionDepartment)
	}
	sd.Highlights = domain.HighlightsFor(profile, temp)
	sd.Greeting = domain.GreetingFor(site.Name, greetTemp, p.rnd)

	return sd, nil
}

// Now is the planner's current time.
func (p *Planner) Now() time.Time {
	return p.clock.Now()
}

func (p *Planner) project(region string, date time.Time) (domain.ProjectedWeather, error) {
	base, err := p.catalog.Baseline(region)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			p.metrics.NoData.WithLabelValues(SectionWeather).Inc()
		}
		return domain.ProjectedWeather{}, fmt.Errorf("project weather: %w", err)
	}
	return domain.ProjectWeather(base, date, p.clock.Now(), p.rnd), nil
}

func (p *Planner) tripInfo(trip domain.Trip) TripInfo {
	now := p.clock.Now()
	return TripInfo{
		Region:               trip.Region,
		Date:                 trip.Date.Format(domain.DateLayout),
		DaysAhead:            domain.DaysUntil(now, trip.Date),
		WithinPlanningWindow: domain.WithinPlanningWindow(now, trip.Date),
	}
}

func (p *Planner) alerts(trip domain.Trip) AlertsView {
	days := domain.DaysUntil(p.clock.Now(), trip.Date)
	src := p.catalog.Alerts(trip.Region)
	if len(src) == 0 {
		p.metrics.NoData.WithLabelValues(SectionAlerts).Inc()
	}
	return AlertsView{
		Region:    trip.Region,
		DaysAhead: days,
		LongRange: days > longRangeDays,
		Alerts:    domain.FilterAlerts(src, days),
	}
}

func (p *Planner) sites(trip domain.Trip) SitesView {
	days := domain.DaysUntil(p.clock.Now(), trip.Date)
	month := trip.Date.Month()
	sites := p.catalog.SitesInRegion(trip.Region)

	view := SitesView{
		Region: trip.Region,
		Month:  month.String(),
		Cards:  make([]SiteCard, 0, len(sites)),
		Map:    MapView{Center: PeruCenter, Zoom: MapZoom, Markers: make([]MapMarker, 0, len(sites))},
	}
	for _, s := range sites {
		view.Cards = append(view.Cards, SiteCard{
			TouristSite:     s,
			SiteSeasonality: domain.ScoreSite(s.Category, month),
			LongRange:       days > longRangeDays,
		})
		view.Map.Markers = append(view.Map.Markers, marker(s))
	}
	return view
}

func packingView(w domain.ProjectedWeather) PackingView {
	pv := PackingView{
		PackingAdvice: domain.AdvisePacking(w.SeasonalC, w.RainySeason, w.DaysFromToday),
		TemperatureC:  w.TemperatureC,
		Season:        w.Season,
		DaysAhead:     w.DaysFromToday,
	}
	if w.DaysFromToday > tipDays {
		pv.Tip = fmt.Sprintf("For trips %d days away, check forecast updates closer to your travel date", w.DaysFromToday)
	}
	return pv
}

func marker(s domain.TouristSite) MapMarker {
	return MapMarker{ID: s.ID, Name: s.Name, LatLon: LatLon{Lat: s.Lat, Lon: s.Lon}}
}
