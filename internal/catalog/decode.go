package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

// Issue describes a record that failed validation.
type Issue struct {
	File   string `json:"file"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s[%d]: %s", i.File, i.Index, i.Reason)
}

// Raw record shapes use pointers so missing fields can be told apart from zero values.

type weatherRecord struct {
	Region      *string  `json:"region"`
	Temperature *float64 `json:"temperature"`
	Forecast    *string  `json:"forecast"`
	Humidity    *float64 `json:"humidity"`
}

type siteRecord struct {
	ID          *string  `json:"id"`
	Name        *string  `json:"name"`
	Region      *string  `json:"region"`
	Category    *string  `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

type alertRecord struct {
	Region             *string  `json:"region"`
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	RiskLevel          *string  `json:"risk_level"`
	AffectedAreas      []string `json:"affected_areas"`
	PreventionMeasures []string `json:"prevention_measures"`
	Symptoms           []string `json:"symptoms"`
}

type profileRecord struct {
	Activities []string `json:"activities"`
	Foods      []string `json:"foods"`
}

type departmentRecord struct {
	Department *string        `json:"department"`
	Hot        *profileRecord `json:"hot"`
	Cold       *profileRecord `json:"cold"`
}

func decode(fsys fs.FS) (*Catalog, []Issue, error) {
	c := &Catalog{
		baselines:   make(map[string]domain.RegionBaseline),
		siteByID:    make(map[string]domain.TouristSite),
		alerts:      make(map[string][]domain.EpidemicAlert),
		departments: make(map[string]domain.DepartmentProfile),
	}
	var issues []Issue

	weather, err := readArray[weatherRecord](fsys, WeatherFile)
	if err != nil {
		return nil, nil, err
	}
	for i, r := range weather {
		b, reason := r.toDomain()
		if reason == "" {
			if _, dup := c.baselines[b.Region]; dup {
				reason = fmt.Sprintf("duplicate region %q", b.Region)
			}
		}
		if reason != "" {
			issues = append(issues, Issue{File: WeatherFile, Index: i, Reason: reason})
			continue
		}
		c.baselines[b.Region] = b
		c.regions = append(c.regions, b.Region)
	}

	sites, err := readArray[siteRecord](fsys, SitesFile)
	if err != nil {
		return nil, nil, err
	}
	for i, r := range sites {
		s, reason := r.toDomain()
		if reason == "" {
			if _, dup := c.siteByID[s.ID]; dup {
				reason = fmt.Sprintf("duplicate site id %q", s.ID)
			}
		}
		if reason != "" {
			issues = append(issues, Issue{File: SitesFile, Index: i, Reason: reason})
			continue
		}
		c.siteByID[s.ID] = s
		c.sites = append(c.sites, s)
	}

	alerts, err := readArray[alertRecord](fsys, EpidemicsFile)
	if err != nil {
		return nil, nil, err
	}
	for i, r := range alerts {
		a, reason := r.toDomain()
		if reason != "" {
			issues = append(issues, Issue{File: EpidemicsFile, Index: i, Reason: reason})
			continue
		}
		c.alerts[a.Region] = append(c.alerts[a.Region], a)
		c.alertCount++
	}

	departments, err := readArray[departmentRecord](fsys, DepartmentsFile)
	if err != nil {
		return nil, nil, err
	}
	for i, r := range departments {
		d, reason := r.toDomain()
		if reason == "" {
			if _, dup := c.departments[d.Department]; dup {
				reason = fmt.Sprintf("duplicate department %q", d.Department)
			}
		}
		if reason != "" {
			issues = append(issues, Issue{File: DepartmentsFile, Index: i, Reason: reason})
			continue
		}
		c.departments[d.Department] = d
	}

	return c, issues, nil
}

func readArray[T any](fsys fs.FS, name string) ([]T, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func missing(fields ...string) string {
	return "missing " + strings.Join(fields, ", ")
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func (r weatherRecord) toDomain() (domain.RegionBaseline, string) {
	var absent []string
	if blank(r.Region) {
		absent = append(absent, "region")
	}
	if r.Temperature == nil {
		absent = append(absent, "temperature")
	}
	if blank(r.Forecast) {
		absent = append(absent, "forecast")
	}
	if r.Humidity == nil {
		absent = append(absent, "humidity")
	}
	if len(absent) > 0 {
		return domain.RegionBaseline{}, missing(absent...)
	}
	return domain.RegionBaseline{
		Region:          *r.Region,
		TemperatureC:    *r.Temperature,
		Forecast:        *r.Forecast,
		HumidityPercent: *r.Humidity,
	}, ""
}

func (r siteRecord) toDomain() (domain.TouristSite, string) {
	var absent []string
	if blank(r.ID) {
		absent = append(absent, "id")
	}
	if blank(r.Name) {
		absent = append(absent, "name")
	}
	if blank(r.Region) {
		absent = append(absent, "region")
	}
	if blank(r.Category) {
		absent = append(absent, "category")
	}
	if r.Lat == nil {
		absent = append(absent, "lat")
	}
	if r.Lon == nil {
		absent = append(absent, "lon")
	}
	if len(absent) > 0 {
		return domain.TouristSite{}, missing(absent...)
	}
	return domain.TouristSite{
		ID:          *r.ID,
		Name:        *r.Name,
		Region:      *r.Region,
		Category:    *r.Category,
		Description: r.Description,
		Image:       r.Image,
		Lat:         *r.Lat,
		Lon:         *r.Lon,
	}, ""
}

func (r alertRecord) toDomain() (domain.EpidemicAlert, string) {
	var absent []string
	if blank(r.Region) {
		absent = append(absent, "region")
	}
	if blank(r.Title) {
		absent = append(absent, "title")
	}
	if r.Description == nil {
		absent = append(absent, "description")
	}
	if blank(r.RiskLevel) {
		absent = append(absent, "risk_level")
	}
	if len(absent) > 0 {
		return domain.EpidemicAlert{}, missing(absent...)
	}
	level := domain.RiskLevel(*r.RiskLevel)
	if !level.Valid() {
		return domain.EpidemicAlert{}, fmt.Sprintf("unknown risk level %q", *r.RiskLevel)
	}
	return domain.EpidemicAlert{
		Region:             *r.Region,
		Title:              *r.Title,
		Description:        *r.Description,
		RiskLevel:          level,
		AffectedAreas:      r.AffectedAreas,
		PreventionMeasures: r.PreventionMeasures,
		Symptoms:           r.Symptoms,
	}, ""
}

func (r departmentRecord) toDomain() (domain.DepartmentProfile, string) {
	var absent []string
	if blank(r.Department) {
		absent = append(absent, "department")
	}
	if r.Hot == nil {
		absent = append(absent, "hot")
	}
	if r.Cold == nil {
		absent = append(absent, "cold")
	}
	if len(absent) > 0 {
		return domain.DepartmentProfile{}, missing(absent...)
	}
	return domain.DepartmentProfile{
		Department: *r.Department,
		Hot:        domain.ClimateProfile{Activities: r.Hot.Activities, Foods: r.Hot.Foods},
		Cold:       domain.ClimateProfile{Activities: r.Cold.Activities, Foods: r.Cold.Foods},
	}, ""
}
