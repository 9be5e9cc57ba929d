package domain

import "slices"

// LongRangeCaveat is appended to alert descriptions for trips more than 30 days out.
const LongRangeCaveat = " - Long-term forecast may change"

const (
	longRangeDays = 30
	dropLowDays   = 60
)

// FilterAlerts returns annotated copies of alerts for a trip daysAhead days away.
// Beyond 30 days each description carries LongRangeCaveat; beyond 60 days low-risk
// alerts are dropped. Order is preserved and the input is never modified.
func FilterAlerts(alerts []EpidemicAlert, daysAhead int) []EpidemicAlert {
	out := make([]EpidemicAlert, 0, len(alerts))
	for _, a := range alerts {
		if daysAhead > dropLowDays && a.RiskLevel == RiskLow {
			continue
		}
		c := a
		c.AffectedAreas = slices.Clone(a.AffectedAreas)
		c.PreventionMeasures = slices.Clone(a.PreventionMeasures)
		c.Symptoms = slices.Clone(a.Symptoms)
		if daysAhead > longRangeDays {
			c.Description += LongRangeCaveat
		}
		out = append(out, c)
	}
	return out
}
