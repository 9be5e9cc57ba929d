// Command validate checks the reference data set: record schemas, duplicate
// ids, unknown risk levels, and cross references from sites, alerts and
// department profiles to regions with a weather baseline.
//
// Usage:
//
//	go run ./cmd/validate              # embedded data set
//	go run ./cmd/validate -dir ./data  # files on disk, as REFDATA_DIR would load them
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/couchcryptid/pachawayra-service/internal/catalog"
)

// phase tracks pass/fail for one reference data file.
type phase struct {
	name   string
	file   string
	errors []string
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "", "directory holding the four reference data files (default: embedded set)")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	flag.Parse()

	os.Exit(run(*dir, *asJSON))
}

func run(dir string, asJSON bool) int {
	var fsys fs.FS = catalog.Embedded()
	if dir != "" {
		fsys = os.DirFS(dir)
	}

	report, err := catalog.Validate(fsys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: encode report: %v\n", err)
			return 1
		}
		if report.OK() {
			return 0
		}
		return 1
	}

	phases := []*phase{
		{name: "Weather baselines", file: catalog.WeatherFile},
		{name: "Tourist sites", file: catalog.SitesFile},
		{name: "Epidemic alerts", file: catalog.EpidemicsFile},
		{name: "Department profiles", file: catalog.DepartmentsFile},
	}
	for _, issue := range report.Issues {
		for _, p := range phases {
			if p.file == issue.File {
				p.errors = append(p.errors, issue.String())
			}
		}
	}

	fmt.Println("=== PachaWayra Reference Data Validation ===")
	fmt.Println()
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d regions, %d sites, %d alerts, %d departments\n",
		report.Regions, report.Sites, report.Alerts, report.Departments)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if report.OK() {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}
