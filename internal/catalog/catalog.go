// Package catalog loads the static reference data: regional weather baselines,
// tourist sites, epidemic alerts and department profiles.
//
// The data ships embedded in the binary. A directory with the same four files can
// replace it at startup. Records are schema-checked on load; invalid records are
// skipped and reported, malformed JSON fails the load.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

// Reference data file names, shared by the embedded set and REFDATA_DIR.
const (
	WeatherFile     = "weather.json"
	SitesFile       = "tourist_sites.json"
	EpidemicsFile   = "epidemics.json"
	DepartmentsFile = "departments.json"
)

//go:embed data/*.json
var embedded embed.FS

// Catalog is the read-only reference data, indexed for lookups by region and id.
// It is safe for concurrent use once loaded.
type Catalog struct {
	regions     []string
	baselines   map[string]domain.RegionBaseline
	sites       []domain.TouristSite
	siteByID    map[string]domain.TouristSite
	alerts      map[string][]domain.EpidemicAlert
	alertCount  int
	departments map[string]domain.DepartmentProfile
}

// Embedded returns the reference data compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Open loads the catalog from dir, or from the embedded data when dir is empty.
func Open(dir string, logger *slog.Logger) (*Catalog, error) {
	fsys := Embedded()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return Load(fsys, logger)
}

// Load reads the four reference files from fsys. Invalid records are logged and skipped.
func Load(fsys fs.FS, logger *slog.Logger) (*Catalog, error) {
	cat, issues, err := decode(fsys)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		logger.Warn("skipping invalid reference record",
			"file", is.File,
			"index", is.Index,
			"reason", is.Reason,
		)
	}
	logger.Info("reference data loaded",
		"regions", len(cat.regions),
		"sites", len(cat.sites),
		"alerts", cat.alertCount,
		"departments", len(cat.departments),
	)
	return cat, nil
}

// Regions lists the regions with a weather baseline, in file order.
func (c *Catalog) Regions() []string {
	return slices.Clone(c.regions)
}

// Baseline returns the weather baseline of region.
func (c *Catalog) Baseline(region string) (domain.RegionBaseline, error) {
	b, ok := c.baselines[region]
	if !ok {
		return domain.RegionBaseline{}, fmt.Errorf("weather baseline for region %q: %w", region, domain.ErrNoData)
	}
	return b, nil
}

// Site returns the catalogue entry with the given id.
func (c *Catalog) Site(id string) (domain.TouristSite, error) {
	s, ok := c.siteByID[id]
	if !ok {
		return domain.TouristSite{}, fmt.Errorf("tourist site %q: %w", id, domain.ErrNoData)
	}
	return s, nil
}

// SitesInRegion returns the sites of region in catalogue order. Unknown regions yield none.
func (c *Catalog) SitesInRegion(region string) []domain.TouristSite {
	var out []domain.TouristSite
	for _, s := range c.sites {
		if s.Region == region {
			out = append(out, s)
		}
	}
	return out
}

// Alerts returns the epidemic alerts of region in file order. The caller must not modify them.
func (c *Catalog) Alerts(region string) []domain.EpidemicAlert {
	return c.alerts[region]
}

// Department returns the activity profile keyed by department name.
func (c *Catalog) Department(name string) (domain.DepartmentProfile, error) {
	d, ok := c.departments[name]
	if !ok {
		return domain.DepartmentProfile{}, fmt.Errorf("department profile %q: %w", name, domain.ErrNoData)
	}
	return d, nil
}

// Ready reports whether any region is available.
func (c *Catalog) Ready() bool {
	return c != nil && len(c.regions) > 0
}

// CheckReadiness implements the readiness probe.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	if !c.Ready() {
		return errors.New("reference data has no regions")
	}
	return nil
}
