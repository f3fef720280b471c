package encode

import "sort"

// Code tables for the categorical features. The numeric codes mirror the
// encoding the regression model was trained against; changing any value
// silently breaks artifact compatibility.
var typeCodes = map[string]float64{
	"Apartment": 0,
	"House":     1,
}

var stateCodes = map[string]float64{
	"Good":           1,
	"Unknown":        2,
	"As new":         3,
	"To renovate":    4,
	"To be done up":  5,
	"Just renovated": 6,
	"To restore":     7,
}

var regionCodes = map[string]float64{
	"Brussel":  0,
	"Flanders": 1,
	"Wallonia": 2,
}

type municipalityInfo struct {
	region string
	code   float64
}

var municipalities = map[string]municipalityInfo{
	"Antwerpen":       {region: "Flanders", code: 0},
	"Brussel":         {region: "Brussel", code: 1},
	"Henegouwen":      {region: "Wallonia", code: 2},
	"Limburg":         {region: "Flanders", code: 3},
	"Luik":            {region: "Wallonia", code: 4},
	"Luxemburg":       {region: "Wallonia", code: 5},
	"Namen":           {region: "Wallonia", code: 6},
	"Oost-Vlaanderen": {region: "Flanders", code: 7},
	"Vlaams-Brabant":  {region: "Flanders", code: 8},
	"Waals-Brabant":   {region: "Wallonia", code: 9},
	"West-Vlaanderen": {region: "Flanders", code: 10},
}

// Average net taxable income per municipality (Statbel, per capita). Missing
// entries fall back to 0 at encode time.
var municipalityIncome = map[string]float64{
	"Antwerpen":       31370.66,
	"Brussel":         29213.63,
	"Henegouwen":      25779.83,
	"Limburg":         31620.44,
	"Luik":            29132.64,
	"Luxemburg":       32628.53,
	"Namen":           27685.44,
	"Oost-Vlaanderen": 30710.00,
	"Vlaams-Brabant":  36105.99,
	"Waals-Brabant":   39882.77,
	"West-Vlaanderen": 30269.35,
}

// averageIncome returns the average income for a municipality, or 0 when the
// municipality has no entry in the income table.
func averageIncome(municipality string) float64 {
	return municipalityIncome[municipality]
}

// PropertyTypes returns the recognized property types in code order.
func PropertyTypes() []string {
	return sortedByCode(typeCodes)
}

// States returns the recognized building states in code order.
func States() []string {
	return sortedByCode(stateCodes)
}

// Regions returns the recognized regions in code order.
func Regions() []string {
	return sortedByCode(regionCodes)
}

// MunicipalitiesIn returns the municipalities bound to a region, in code
// order. The result is empty for an unknown region.
func MunicipalitiesIn(region string) []string {
	var names []string
	for name, info := range municipalities {
		if info.region == region {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return municipalities[names[i]].code < municipalities[names[j]].code
	})
	return names
}

func sortedByCode(codes map[string]float64) []string {
	names := make([]string, 0, len(codes))
	for name := range codes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return codes[names[i]] < codes[names[j]] })
	return names
}

// SizeCategory buckets a living area into the label shown next to the area
// input on the original form.
func SizeCategory(livingArea float64) string {
	switch {
	case livingArea <= 20:
		return "Tiny Apartment"
	case livingArea <= 50:
		return "Small Apartment"
	case livingArea <= 100:
		return "Medium Apartment"
	case livingArea <= 300:
		return "Regular House"
	case livingArea <= 500:
		return "Large House"
	case livingArea <= 1000:
		return "Villa"
	default:
		return "Mansion"
	}
}
