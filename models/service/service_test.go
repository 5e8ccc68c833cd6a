package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDurationMinutes_LookupTable(t *testing.T) {
	cases := map[DurationKind]int{
		DurationHalfHour:   30,
		DurationOneHour:    60,
		DurationTwoHours:   120,
		DurationThreeHours: 180,
		DurationHalfDay:    240,
		DurationFullDay:    480,
	}
	for kind, want := range cases {
		got, err := Service{Duration: kind}.DurationMinutes()
		require.NoError(t, err, kind)
		assert.Equal(t, want, got, kind)
	}
}

func TestDurationMinutes_Custom(t *testing.T) {
	got, err := Service{Duration: DurationCustom, CustomDurationMinutes: intPtr(90)}.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 90, got)

	_, err = Service{Duration: DurationCustom}.DurationMinutes()
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Service{Duration: DurationCustom, CustomDurationMinutes: intPtr(0)}.DurationMinutes()
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestDurationMinutes_Unknown(t *testing.T) {
	_, err := Service{Duration: "fortnight"}.DurationMinutes()
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestValidate(t *testing.T) {
	ok := Service{Name: "Hemming", Duration: DurationOneHour, BufferMinutes: 15}
	assert.NoError(t, ok.Validate())

	noName := ok
	noName.Name = ""
	assert.Error(t, noName.Validate())

	badCap := ok
	badCap.MaxBookingsPerDay = intPtr(0)
	assert.Error(t, badCap.Validate())

	badBuffer := ok
	badBuffer.BufferMinutes = -5
	assert.Error(t, badBuffer.Validate())
}
