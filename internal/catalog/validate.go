package catalog

import (
	"fmt"
	"io/fs"
	"slices"
)

// Report summarizes a reference-data integrity check.
type Report struct {
	Regions     int     `json:"regions"`
	Sites       int     `json:"sites"`
	Alerts      int     `json:"alerts"`
	Departments int     `json:"departments"`
	Issues      []Issue `json:"issues"`
}

// OK reports whether the check found no issues.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Validate loads fsys and checks cross references on top of the record schema:
// every site, alert and department must name a region with a weather baseline.
func Validate(fsys fs.FS) (Report, error) {
	c, issues, err := decode(fsys)
	if err != nil {
		return Report{}, err
	}

	for i, s := range c.sites {
		if _, ok := c.baselines[s.Region]; !ok {
			issues = append(issues, Issue{
				File:   SitesFile,
				Index:  i,
				Reason: fmt.Sprintf("site %q references region %q without a weather baseline", s.ID, s.Region),
			})
		}
	}

	regions := make([]string, 0, len(c.alerts))
	for region := range c.alerts {
		regions = append(regions, region)
	}
	slices.Sort(regions)
	for _, region := range regions {
		if _, ok := c.baselines[region]; !ok {
			issues = append(issues, Issue{
				File:   EpidemicsFile,
				Index:  -1,
				Reason: fmt.Sprintf("alerts reference region %q without a weather baseline", region),
			})
		}
	}

	departments := make([]string, 0, len(c.departments))
	for name := range c.departments {
		departments = append(departments, name)
	}
	slices.Sort(departments)
	for _, name := range departments {
		if _, ok := c.baselines[name]; !ok {
			issues = append(issues, Issue{
				File:   DepartmentsFile,
				Index:  -1,
				Reason: fmt.Sprintf("department %q has no weather baseline", name),
			})
		}
	}

	return Report{
		Regions:     len(c.regions),
		Sites:       len(c.sites),
		Alerts:      c.alertCount,
		Departments: len(c.departments),
		Issues:      issues,
	}, nil
}
