package quote_estimator

import (
	"context"
	"testing"

	"subercraftex/config"
	bookingModel "subercraftex/models/booking"
	"subercraftex/models/material"
	"subercraftex/models/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	est, err := New(context.Background(), config.GeminiConfig{})
	require.NoError(t, err)
	assert.Nil(t, est)
}

func TestParseEstimate(t *testing.T) {
	fenced := "```json\n{\"material_cost\": 120.5, \"labor_cost\": 80, \"notes\": \"two fittings\"}\n```"
	est, err := parseEstimate(fenced)
	require.NoError(t, err)
	assert.Equal(t, 120.5, est.MaterialCost)
	assert.Equal(t, 80.0, est.LaborCost)
	assert.Equal(t, "two fittings", est.Notes)

	est, err = parseEstimate(`{"material_cost": 1, "labor_cost": 2, "notes": ""}`)
	require.NoError(t, err)
	assert.Equal(t, 2.0, est.LaborCost)

	_, err = parseEstimate("no idea")
	assert.Error(t, err)

	_, err = parseEstimate(`{"material_cost": -1, "labor_cost": 2}`)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	notes := "hem the trousers"
	b := &bookingModel.Booking{
		Service:     service.Service{Name: "Bespoke Garment"},
		ServiceType: bookingModel.ServiceTypeCustomProduction,
		Notes:       &notes,
		Materials: []bookingModel.BookingMaterial{
			{Quantity: 3, PriceAtBooking: 38.5, Material: material.Material{Name: "Wool Suiting", Unit: "meter"}},
		},
	}
	prompt := buildPrompt(b)
	assert.Contains(t, prompt, "Service: Bespoke Garment")
	assert.Contains(t, prompt, "Job type: custom production")
	assert.Contains(t, prompt, "Customer notes: hem the trousers")
	assert.Contains(t, prompt, "- 3 meter of Wool Suiting at 38.50")
}
