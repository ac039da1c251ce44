package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_FloodRequiresEquipment(t *testing.T) {
	fi := FarmIrrigation{}

	err := fi.Validate(IrrigationFlood)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "motor_horsepower", valErr.Field)
}

func TestValidate_FloodPipeWidth(t *testing.T) {
	fi := FarmIrrigation{MotorHorsepower: floatPtr(5.0)}

	err := fi.Validate(IrrigationFlood)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "pipe_width_inches", valErr.Field)
}

func TestValidate_FloodDistance(t *testing.T) {
	fi := FarmIrrigation{
		MotorHorsepower: floatPtr(5.0),
		PipeWidthInches: floatPtr(2.0),
	}

	err := fi.Validate(IrrigationFlood)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "distance_motor_to_plot_m", valErr.Field)
}

func TestValidate_FloodComplete(t *testing.T) {
	fi := FarmIrrigation{
		MotorHorsepower:      floatPtr(5.0),
		PipeWidthInches:      floatPtr(2.0),
		DistanceMotorToPlotM: floatPtr(120.0),
	}

	assert.NoError(t, fi.Validate(IrrigationFlood))
}

func TestValidate_SprinklerRequiresPipeWidth(t *testing.T) {
	fi := FarmIrrigation{}

	err := fi.Validate(IrrigationSprinkler)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "pipe_width_inches", valErr.Field)

	fi.PipeWidthInches = floatPtr(1.5)
	assert.NoError(t, fi.Validate(IrrigationSprinkler))
}

func TestValidate_DripRelaxed(t *testing.T) {
	fi := FarmIrrigation{}

	assert.NoError(t, fi.Validate(IrrigationDrip), "drip fields can be derived later")
}

func TestValidate_ZeroValuesTreatedAsMissing(t *testing.T) {
	fi := FarmIrrigation{PipeWidthInches: floatPtr(0)}

	err := fi.Validate(IrrigationSprinkler)

	assert.Error(t, err, "explicit zero is not a usable pipe width")
}
