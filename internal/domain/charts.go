package domain

import (
	"math"
	"strings"
)

var chartDays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ChartPoint is one day of a weekly chart series.
type ChartPoint struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// WeeklyCharts holds the temperature (°C) and wind (km/h) series for a region.
type WeeklyCharts struct {
	Temperature []ChartPoint `json:"temperature"`
	Wind        []ChartPoint `json:"wind"`
}

type chartBase struct {
	temperature float64
	wind        float64
}

func chartBaseFor(region string) chartBase {
	r := strings.ToLower(region)
	switch {
	case strings.Contains(r, "cusco"):
		return chartBase{temperature: 15, wind: 10}
	case strings.Contains(r, "lima"):
		return chartBase{temperature: 22, wind: 12}
	case strings.Contains(r, "arequipa"):
		return chartBase{temperature: 18, wind: 8}
	default:
		return chartBase{temperature: 20, wind: 9}
	}
}

// ChartsFor builds a Sunday-to-Saturday series oscillating around the region's base values.
func ChartsFor(region string) WeeklyCharts {
	base := chartBaseFor(region)
	charts := WeeklyCharts{
		Temperature: make([]ChartPoint, 0, len(chartDays)),
		Wind:        make([]ChartPoint, 0, len(chartDays)),
	}
	for i, day := range chartDays {
		x := float64(i)
		charts.Temperature = append(charts.Temperature, ChartPoint{
			Day:   day,
			Value: roundHalfUp(base.temperature + math.Sin(x*0.8)*5),
		})
		charts.Wind = append(charts.Wind, ChartPoint{
			Day:   day,
			Value: roundHalfUp(base.wind + math.Sin(x*0.6)*3),
		})
	}
	return charts
}
