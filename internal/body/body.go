// Package body classifies a user's body measurements and age.
package body

// BMICategory is a Body-Mass-Index category. The values are the labels used in the historical dataset.
type BMICategory string

const (
	CategoryUnderweight BMICategory = "Kurus"
	CategoryNormal      BMICategory = "Normal"
	CategoryOverweight  BMICategory = "Overweight"
	CategoryObese       BMICategory = "Obesitas"
)

// Categories lists every BMI category from lowest to highest BMI.
func Categories() []BMICategory {
	return []BMICategory{CategoryUnderweight, CategoryNormal, CategoryOverweight, CategoryObese}
}

// AgeBracket is a coarse age classification. The values are the labels used in the historical dataset.
type AgeBracket string

const (
	BracketYoung  AgeBracket = "Muda"
	BracketAdult  AgeBracket = "Dewasa"
	BracketSenior AgeBracket = "Tua"
)

// BMI thresholds. Each is the inclusive lower bound of the next category.
const (
	NormalMinBMI     = 18.5
	OverweightMinBMI = 25.0
	ObeseMinBMI      = 30.0
)

// Age thresholds in years. Each is the inclusive lower bound of the next bracket.
const (
	AdultMinAge  = 25.0
	SeniorMinAge = 45.0
	// ElderlyMinAge only affects the cosmetic difficulty label.
	ElderlyMinAge = 60.0
)

// Profile holds the measurements a recommendation is computed from.
type Profile struct {
	Age      float64 `json:"age"`
	HeightCm float64 `json:"height"`
	WeightKg float64 `json:"weight"`
}

// BMIResult is a computed BMI together with its category.
type BMIResult struct {
	Category BMICategory
	Value    float64
}

// ComputeBMI returns weight divided by the square of height in meters.
//
// weightKg and heightCm must be positive.
func ComputeBMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100 //nolint:mnd // centimeters per meter.
	return weightKg / (heightM * heightM)
}

// ClassifyBMI computes the BMI and maps it to a category over half-open intervals.
func ClassifyBMI(weightKg, heightCm float64) BMIResult {
	bmi := ComputeBMI(weightKg, heightCm)
	return BMIResult{Category: CategoryForBMI(bmi), Value: bmi}
}

// CategoryForBMI maps a BMI value to its category.
func CategoryForBMI(bmi float64) BMICategory {
	switch {
	case bmi < NormalMinBMI:
		return CategoryUnderweight
	case bmi < OverweightMinBMI:
		return CategoryNormal
	case bmi < ObeseMinBMI:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// ClassifyAge maps an age in years to its bracket.
func ClassifyAge(age float64) AgeBracket {
	switch {
	case age < AdultMinAge:
		return BracketYoung
	case age < SeniorMinAge:
		return BracketAdult
	default:
		return BracketSenior
	}
}

// DifficultyLevel is the human-readable training intensity shown next to a recommendation.
// It is independent of the difficulty filtering used for choosing workouts.
func DifficultyLevel(category BMICategory, age float64) string {
	switch {
	case category == CategoryObese || age >= ElderlyMinAge:
		return "Easy"
	case category == CategoryOverweight || age >= SeniorMinAge:
		return "Medium"
	case category == CategoryNormal:
		return "Medium to Hard"
	default:
		return "Easy to Medium"
	}
}
