// Package domain models the seasonal heuristics behind the PachaWayra trip planner.
//
// # Calendar Conventions
//
// Peru lies in the Southern Hemisphere, so the calendar seasons are inverted relative
// to the northern convention. All rules take a [time.Month] (January = 1):
//
//	Season:           Dec–Mar summer | Apr–Jun autumn | Jul–Sep winter | Oct–Nov spring
//	Rainy season:     Dec–Apr (Andean and Amazonian wet season)
//	Winter highlands: Jun–Oct (cold, dry nights above ~3000 m)
//
// The rainy season and the highland winter do not overlap. May and November belong to
// neither, so a projection for those months keeps the baseline temperature.
//
// # Days Ahead
//
// Every date-dependent rule is driven by the number of days between "now" and the
// travel date, rounded up: ceil((date − now) / 24h). A travel date at local midnight
// today therefore yields 0, tomorrow 1. Past dates yield negative values; the rules
// accept them rather than rejecting the request. See [DaysUntil].
//
// # Projection
//
// Weather projections are simulated from a static regional baseline, not forecast.
// Part of the projection (temperature jitter, pressure, rain and snow chance) is drawn
// from a [RandomSource], so two calls with identical inputs may differ. Callers that
// need reproducible output inject a fixed source.
//
// Confidence is derived from days ahead only:
//
//	≤3 days High | ≤7 days Medium | otherwise Low
//
// # Packing Bands
//
// Clothing advice is selected by projected temperature, first match wins:
//
//	<10 °C heavy winter | <15 °C warm layers | >28 °C light summer | >22 °C comfortable light | else layered
//
// # Site Suitability
//
// Sites are scored by category and month. Beaches are poor, mountains fair and
// archaeological sites good during the rainy season; everything else is excellent.
// Peak season depends on the category: Beach/Coastal Dec–Mar, Mountain/Archaeological
// Jun–Oct, all others Jul–Sep.
//
// # Missing Data
//
// Lookups that miss (unknown region, site or department) are reported with [ErrNoData]
// so that callers can render an empty state instead of failing the request.
package domain
