package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{input: "45", expected: 45},
		{input: "45.5", expected: 45.5},
		{input: " 30 ", expected: 30},
		{input: "45:30", expected: 45.5},
		{input: "1:05:30", expected: 65.5},
		{input: "0:00:30", expected: 0.5},
		{input: "90:00", expected: 90},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "45:60", wantErr: true},
		{input: "1:60:00", wantErr: true},
		{input: "1:2:3:4", wantErr: true},
		{input: "1::30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes  float64
		expected string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{0.5, "0:30"},
		{45.5, "45:30"},
		{65.5, "1:05:30"},
		{120, "2:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.minutes), "minutes %v", tt.minutes)
	}
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "10.0 km", New("km").FormatDistance(10))
	assert.Equal(t, "6.2 mi", New("mi").FormatDistance(10))
	assert.Equal(t, "-", New("km").FormatDistance(0))
}

func TestFormatPace(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		minutes  float64
		km       float64
		expected string
	}{
		{name: "5 min/km", unit: "km", minutes: 50, km: 10, expected: "5:00/km"},
		{name: "with seconds", unit: "km", minutes: 27.5, km: 5, expected: "5:30/km"},
		{name: "miles", unit: "mi", minutes: 80.4672, km: 16.09344, expected: "8:03/mi"},
		{name: "no distance", unit: "km", minutes: 30, km: 0, expected: "-"},
		{name: "no time", unit: "km", minutes: 0, km: 5, expected: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.unit).FormatPace(tt.minutes, tt.km))
		})
	}
}

func TestDistanceLabel(t *testing.T) {
	assert.Equal(t, "km", New("km").DistanceLabel())
	assert.Equal(t, "km", New("").DistanceLabel())
	assert.Equal(t, "mi", New("mi").DistanceLabel())
	assert.True(t, New("mi").IsMiles())
}
