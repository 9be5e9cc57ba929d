package domain

// HotThresholdC separates the hot and cold department profiles.
const HotThresholdC = 20

// DefaultTemperatureC stands in when no projection is available.
const DefaultTemperatureC = 20

const maxDepartmentEntries = 8

var (
	fallbackActivities = []string{"Cultural tours", "Local exploration", "Photography", "Sightseeing"}
	fallbackFoods      = []string{"Local cuisine", "Traditional dishes", "Regional specialties"}
)

// LocalHighlights are the activities and foods suggested for a trip.
type LocalHighlights struct {
	Activities []string `json:"activities"`
	Foods      []string `json:"foods"`
	Fallback   bool     `json:"fallback"`
}

// HighlightsFor selects the hot or cold regime of profile for tempC, keeping the
// first eight entries of each list. A nil profile yields the generic fallbacks.
func HighlightsFor(profile *DepartmentProfile, tempC int) LocalHighlights {
	if profile == nil {
		return LocalHighlights{
			Activities: append([]string(nil), fallbackActivities...),
			Foods:      append([]string(nil), fallbackFoods...),
			Fallback:   true,
		}
	}

	regime := profile.Cold
	if tempC > HotThresholdC {
		regime = profile.Hot
	}
	return LocalHighlights{
		Activities: firstN(regime.Activities, maxDepartmentEntries),
		Foods:      firstN(regime.Foods, maxDepartmentEntries),
	}
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	return append([]string{}, s...)
}
