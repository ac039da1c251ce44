package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestPlantsInField_Computed(t *testing.T) {
	farm := Farm{
		AreaSize: 2.0,
		SpacingA: floatPtr(4.0),
		SpacingB: floatPtr(1.5),
	}

	plants := farm.PlantsInField()

	assert.NotNil(t, plants)
	assert.Equal(t, 14520, *plants, "2 acres * 43560 / (4*1.5) = 14520")
}

func TestPlantsInField_MissingSpacing(t *testing.T) {
	farm := Farm{
		AreaSize: 2.0,
		SpacingA: floatPtr(4.0),
	}

	assert.Nil(t, farm.PlantsInField(), "missing spacing_b should yield no estimate")
}

func TestPlantsInField_ZeroArea(t *testing.T) {
	farm := Farm{
		AreaSize: 0,
		SpacingA: floatPtr(4.0),
		SpacingB: floatPtr(1.5),
	}

	assert.Nil(t, farm.PlantsInField())
}

func TestPlantsInField_ZeroSpacingProduct(t *testing.T) {
	farm := Farm{
		AreaSize: 2.0,
		SpacingA: floatPtr(0),
		SpacingB: floatPtr(1.5),
	}

	assert.Nil(t, farm.PlantsInField(), "zero spacing must not divide by zero")
}

func TestFarmUIDString_WithPlot(t *testing.T) {
	farm := Farm{FarmUID: uuid.MustParse("11111111-2222-3333-4444-555555555555")}
	plot := &Plot{GatNumber: "123", PlotNumber: "45"}

	code := farm.FarmUIDString("rameshp", plot)

	assert.Equal(t, "rameshp-123-45-11111111222233334444555555555555", code)
}

func TestFarmUIDString_WithoutPlotNumbers(t *testing.T) {
	farm := Farm{FarmUID: uuid.MustParse("11111111-2222-3333-4444-555555555555")}
	plot := &Plot{GatNumber: "123"}

	assert.Equal(t, "rameshp-11111111222233334444555555555555", farm.FarmUIDString("rameshp", plot))
	assert.Equal(t, "rameshp-11111111222233334444555555555555", farm.FarmUIDString("rameshp", nil))
}
