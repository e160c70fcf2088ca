package usda

import (
	"strings"

	"github.com/smartaisle/backend/internal/domain"
)

// Legacy USDA nutrient numbers for the values the analyzer evaluates
const (
	NutrientIDProtein      = 203
	NutrientIDTotalFat     = 204
	NutrientIDCarbohydrate = 205
	NutrientIDEnergy       = 208
	NutrientIDSugar        = 269
	NutrientIDFiber        = 291
	NutrientIDCalcium      = 301
	NutrientIDIron         = 303
	NutrientIDMagnesium    = 304
	NutrientIDPhosphorus   = 305
	NutrientIDPotassium    = 306
	NutrientIDSodium       = 307
	NutrientIDVitaminA     = 318
	NutrientIDVitaminC     = 401
	NutrientIDTransFat     = 605
	NutrientIDSaturatedFat = 606
)

// additiveTerms flag additives when they appear in a matched record's description
var additiveTerms = []string{
	"artificial",
	"flavor",
	"color",
	"dye",
	"preservative",
	"sweetener",
	"emulsifier",
	"stabilizer",
	"thickener",
	"msg",
	"nitrate",
	"nitrite",
	"bha",
	"bht",
}

// ExtractNutrientProfile builds a NutrientProfile from a search hit,
// preferring the detail record's nutrient list when available.
func ExtractNutrientProfile(food *domain.USDAFood, detail *domain.USDAFood) *domain.NutrientProfile {
	profile := &domain.NutrientProfile{
		Vitamins: map[string]float64{},
		Minerals: map[string]float64{},
	}

	nutrients := food.Nutrients
	if detail != nil && len(detail.Nutrients) > 0 {
		nutrients = detail.Nutrients
	}

	for _, nutrient := range nutrients {
		value := nutrient.Quantity()
		switch nutrient.ID() {
		case NutrientIDEnergy:
			profile.Calories = value
		case NutrientIDProtein:
			profile.Protein = value
		case NutrientIDTotalFat:
			profile.Fat = value
		case NutrientIDSaturatedFat:
			profile.SaturatedFat = value
		case NutrientIDTransFat:
			profile.TransFat = value
		case NutrientIDCarbohydrate:
			profile.Carbs = value
		case NutrientIDSugar:
			profile.Sugar = value
		case NutrientIDFiber:
			profile.Fiber = value
		case NutrientIDSodium:
			profile.Sodium = value
		case NutrientIDVitaminC:
			profile.Vitamins["C"] = value
		case NutrientIDVitaminA:
			profile.Vitamins["A"] = value
		case NutrientIDCalcium:
			profile.Minerals["calcium"] = value
		case NutrientIDIron:
			profile.Minerals["iron"] = value
		case NutrientIDMagnesium:
			profile.Minerals["magnesium"] = value
		case NutrientIDPhosphorus:
			profile.Minerals["phosphorus"] = value
		case NutrientIDPotassium:
			profile.Minerals["potassium"] = value
		}
	}

	desc := strings.ToLower(food.Description)
	for _, term := range additiveTerms {
		if strings.Contains(desc, term) {
			profile.Additives = append(profile.Additives, term)
		}
	}

	return profile
}
