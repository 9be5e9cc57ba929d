package domain

// PackingIcon keys the mood icon shown next to packing advice.
type PackingIcon string

const (
	IconSnow PackingIcon = "snow"
	IconRain PackingIcon = "rain"
	IconSun  PackingIcon = "sun"
	IconWind PackingIcon = "wind"
)

// MaxSitePackingItems caps the site-specific packing guide.
const MaxSitePackingItems = 10

// PackingAdvice is a clothing recommendation with its ordered item list.
type PackingAdvice struct {
	ClothingAdvice string      `json:"clothing_advice"`
	Items          []string    `json:"items"`
	Icon           PackingIcon `json:"icon"`
}

type clothingBand struct {
	advice string
	items  []string
	icon   PackingIcon
}

// clothingBandFor picks the band for a temperature. First match wins.
func clothingBandFor(tempC float64) clothingBand {
	switch {
	case tempC < 10:
		return clothingBand{
			advice: "Heavy winter clothing essential",
			items:  []string{"Thermal layers", "Winter jacket", "Warm boots", "Gloves", "Beanie"},
			icon:   IconSnow,
		}
	case tempC < 15:
		return clothingBand{
			advice: "Warm layers recommended",
			items:  []string{"Jacket", "Sweater", "Long pants", "Closed shoes"},
			icon:   IconRain,
		}
	case tempC > 28:
		return clothingBand{
			advice: "Light summer clothing",
			items:  []string{"Light shirt", "Shorts", "Sun hat", "Sunglasses", "Sandals"},
			icon:   IconSun,
		}
	case tempC > 22:
		return clothingBand{
			advice: "Comfortable light clothing",
			items:  []string{"T-shirt", "Light pants", "Comfortable shoes", "Sun protection"},
			icon:   IconSun,
		}
	default:
		return clothingBand{
			advice: "Layered clothing ideal",
			items:  []string{"Light sweater", "Long sleeves", "Comfortable shoes", "Light jacket"},
			icon:   IconWind,
		}
	}
}

// AdvisePacking returns clothing advice for a projected temperature. Rain gear is
// appended in the rainy season and a reminder for trips more than 30 days out.
func AdvisePacking(tempC float64, rainySeason bool, daysAhead int) PackingAdvice {
	band := clothingBandFor(tempC)
	items := append([]string(nil), band.items...)
	icon := band.icon

	if rainySeason {
		items = append(items, "Rain jacket", "Waterproof shoes")
		icon = IconRain
	}
	if daysAhead > 30 {
		items = append(items, "Check forecast updates")
	}

	return PackingAdvice{ClothingAdvice: band.advice, Items: items, Icon: icon}
}

var categoryPacking = map[string][]string{
	CategoryArchaeological: {"Comfortable walking shoes", "Hat", "Water bottle"},
	CategoryMountain:       {"Hiking boots", "Backpack", "Water purification tablets"},
	CategoryBeach:          {"Swimwear", "Beach towel", "Sandals", "Beach bag"},
}

// SitePackingGuide lists what to bring to a site of the given category.
// The list never exceeds MaxSitePackingItems.
func SitePackingGuide(tempC float64, category string) []string {
	band := clothingBandFor(tempC)
	items := make([]string, 0, len(band.items)+4)
	items = append(items, band.items...)
	items = append(items, categoryPacking[category]...)
	if len(items) > MaxSitePackingItems {
		items = items[:MaxSitePackingItems]
	}
	return items
}
