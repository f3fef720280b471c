// Package encode maps raw property records onto the fixed feature vector the
// price model consumes. The mapping is deterministic and side-effect free:
// categorical inputs resolve through immutable lookup tables, numeric inputs
// pass through a small set of derived transforms (bedroom binning, log of the
// living area, square root of the outdoor area).
package encode

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Record holds the raw user-facing attributes of one property.
type Record struct {
	PropertyType     string  `json:"property_type"`
	Bedrooms         int     `json:"bedrooms"`
	KitchenEquipped  bool    `json:"kitchen_equipped"`
	State            string  `json:"state"`
	Facades          int     `json:"facades"`
	SwimmingPool     bool    `json:"swimming_pool"`
	Region           string  `json:"region"`
	Municipality     string  `json:"municipality"`
	LivingArea       float64 `json:"living_area"`
	TotalOutdoorArea int     `json:"total_outdoor_area"`
}

// Feature indices of the canonical vector. The order is fixed by the trained
// artifact and must not change.
const (
	FeatType = iota
	FeatBedrooms
	FeatEquippedKitchen
	FeatState
	FeatFacades
	FeatSwimPool
	FeatMunicipality
	FeatRegion
	FeatAverageIncome
	FeatBedroomBin
	FeatLogLivingArea
	FeatSqrtOutdoorArea
	NumFeatures
)

// FeatureNames lists the canonical column names in vector order.
var FeatureNames = [NumFeatures]string{
	"Type",
	"Bedrooms",
	"Is_Equipped_Kitchen",
	"State",
	"Facades",
	"Swim_pool",
	"Municipality",
	"Region",
	"Average_Income",
	"Bedroom_Bin_Code",
	"Log_Living_Area",
	"Sqrt_Total_Outdoor_Area",
}

// Vector is the canonical ordered feature vector.
type Vector [NumFeatures]float64

// Row returns the vector as a fresh slice, the shape model inference expects.
func (v Vector) Row() []float64 {
	row := make([]float64, NumFeatures)
	copy(row, v[:])
	return row
}

// LookupError reports a categorical value that is not a key of its lookup
// table.
type LookupError struct {
	Field string
	Value string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("encode: unknown %s %q", e.Field, e.Value)
}

// DomainError reports a numeric input outside the domain of its transform.
type DomainError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("encode: %s %v out of domain: %s", e.Field, e.Value, e.Reason)
}

// Encode maps a raw record onto the canonical feature vector. It is
// deterministic: identical records produce bit-identical vectors.
func Encode(r Record) (Vector, error) {
	typeCode, ok := typeCodes[r.PropertyType]
	if !ok {
		return Vector{}, &LookupError{Field: "property_type", Value: r.PropertyType}
	}
	stateCode, ok := stateCodes[r.State]
	if !ok {
		return Vector{}, &LookupError{Field: "state", Value: r.State}
	}
	regionCode, ok := regionCodes[r.Region]
	if !ok {
		return Vector{}, &LookupError{Field: "region", Value: r.Region}
	}
	muni, ok := municipalities[r.Municipality]
	if !ok {
		return Vector{}, &LookupError{Field: "municipality", Value: r.Municipality}
	}

	if r.Bedrooms < 0 {
		return Vector{}, &DomainError{Field: "bedrooms", Value: float64(r.Bedrooms), Reason: "must be >= 0"}
	}
	if r.Facades < 1 {
		return Vector{}, &DomainError{Field: "facades", Value: float64(r.Facades), Reason: "must be >= 1"}
	}
	if r.LivingArea <= 0 {
		return Vector{}, &DomainError{Field: "living_area", Value: r.LivingArea, Reason: "log transform undefined"}
	}
	if r.TotalOutdoorArea < 0 {
		return Vector{}, &DomainError{Field: "total_outdoor_area", Value: float64(r.TotalOutdoorArea), Reason: "must be >= 0"}
	}

	income := averageIncome(r.Municipality)
	if _, present := municipalityIncome[r.Municipality]; !present {
		// The training data carried a 0 income for municipalities missing from
		// the income table, so encoding keeps doing the same.
		log.Debug().Str("municipality", r.Municipality).Msg("no income entry, defaulting to 0")
	}

	return Vector{
		FeatType:            typeCode,
		FeatBedrooms:        float64(r.Bedrooms),
		FeatEquippedKitchen: boolToFloat(r.KitchenEquipped),
		FeatState:           stateCode,
		FeatFacades:         float64(r.Facades),
		FeatSwimPool:        boolToFloat(r.SwimmingPool),
		FeatMunicipality:    muni.code,
		FeatRegion:          regionCode,
		FeatAverageIncome:   income,
		FeatBedroomBin:      bedroomBin(r.Bedrooms),
		FeatLogLivingArea:   math.Log(r.LivingArea),
		FeatSqrtOutdoorArea: math.Sqrt(float64(r.TotalOutdoorArea)),
	}, nil
}

// bedroomBin discretizes the bedroom count, inclusive on the lower category.
func bedroomBin(bedrooms int) float64 {
	switch {
	case bedrooms <= 2:
		return 1
	case bedrooms <= 4:
		return 2
	default:
		return 3
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
