package usda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaisle/backend/internal/domain"
)

func TestExtractNutrientProfile_SearchShape(t *testing.T) {
	food := &domain.USDAFood{
		FdcID:       168462,
		Description: "Spinach, raw",
		Nutrients: []domain.USDANutrient{
			{NutrientID: NutrientIDProtein, Value: 2.86},
			{NutrientID: NutrientIDFiber, Value: 2.2},
			{NutrientID: NutrientIDSodium, Value: 79.0},
			{NutrientID: NutrientIDVitaminC, Value: 28.1},
			{NutrientID: NutrientIDIron, Value: 2.71},
		},
	}

	profile := ExtractNutrientProfile(food, nil)

	require.NotNil(t, profile)
	assert.Equal(t, 2.86, profile.Protein)
	assert.Equal(t, 2.2, profile.Fiber)
	assert.Equal(t, 79.0, profile.Sodium)
	assert.Equal(t, 28.1, profile.Vitamins["C"])
	assert.Equal(t, 2.71, profile.Minerals["iron"])
	assert.Empty(t, profile.Additives)
}

func TestExtractNutrientProfile_PrefersDetailRecord(t *testing.T) {
	searchHit := &domain.USDAFood{
		Description: "Cheddar cheese",
		Nutrients: []domain.USDANutrient{
			{NutrientID: NutrientIDProtein, Value: 10.0},
		},
	}
	detail := &domain.USDAFood{
		Nutrients: []domain.USDANutrient{
			{
				Nutrient: &struct {
					ID     int    `json:"id"`
					Number string `json:"number"`
					Name   string `json:"name"`
				}{ID: NutrientIDProtein, Number: "203", Name: "Protein"},
				Amount: 24.9,
			},
			{
				Nutrient: &struct {
					ID     int    `json:"id"`
					Number string `json:"number"`
					Name   string `json:"name"`
				}{ID: NutrientIDSaturatedFat, Number: "606", Name: "Fatty acids, saturated"},
				Amount: 18.9,
			},
		},
	}

	profile := ExtractNutrientProfile(searchHit, detail)

	assert.Equal(t, 24.9, profile.Protein)
	assert.Equal(t, 18.9, profile.SaturatedFat)
}

func TestExtractNutrientProfile_FlagsAdditives(t *testing.T) {
	food := &domain.USDAFood{
		Description: "Beverage, fruit punch, with artificial sweetener and color added",
	}

	profile := ExtractNutrientProfile(food, nil)

	assert.Contains(t, profile.Additives, "artificial")
	assert.Contains(t, profile.Additives, "sweetener")
	assert.Contains(t, profile.Additives, "color")
}
