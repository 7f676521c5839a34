package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFitnessSingleSpike(t *testing.T) {
	ref := day(83)
	history := []LoadRecord{{Date: day(0), Load: 100}}

	series := ComputeFitness(history, ref, 84)

	require.Len(t, series, 84)
	assert.Equal(t, day(0), series[0].Date)
	assert.Equal(t, ref, series[83].Date)
	assert.Equal(t, 100.0, series[0].ATL)
	assert.Equal(t, 100.0, series[0].CTL)

	for i, p := range series {
		assert.GreaterOrEqual(t, p.CTL, 0.0, "day %d", i)
		assert.GreaterOrEqual(t, p.ATL, 0.0, "day %d", i)
		assert.Equal(t, p.CTL-p.ATL, p.TSB, "day %d", i)
		if i > 0 {
			assert.Less(t, p.CTL, series[i-1].CTL, "day %d", i)
		}
	}
}

func TestComputeFitnessSecondDay(t *testing.T) {
	history := []LoadRecord{{Date: day(0), Load: 100}}

	series := ComputeFitness(history, day(1), 2)

	require.Len(t, series, 2)
	assert.InDelta(t, 75.0, series[1].ATL, 1e-9)
	assert.InDelta(t, 100.0*41.0/43.0, series[1].CTL, 1e-9)
	assert.InDelta(t, series[1].CTL-75.0, series[1].TSB, 1e-9)
}

func TestComputeFitnessConstantLoad(t *testing.T) {
	var history []LoadRecord
	for i := 0; i < 42; i++ {
		history = append(history, LoadRecord{Date: day(i), Load: 50})
	}

	series := ComputeFitness(history, day(41), 42)

	for _, p := range series {
		assert.InDelta(t, 50.0, p.ATL, 1e-9)
		assert.InDelta(t, 50.0, p.CTL, 1e-9)
		assert.InDelta(t, 0.0, p.TSB, 1e-9)
	}
}

func TestComputeFitnessDefaultWindow(t *testing.T) {
	series := ComputeFitness(nil, testDay, 0)

	require.Len(t, series, DefaultFitnessWindow)
	for _, p := range series {
		assert.Zero(t, p.CTL)
		assert.Zero(t, p.TSB)
	}
}

func TestDailyLoads(t *testing.T) {
	history := []LoadRecord{
		{Date: day(2), Load: 30},
		{Date: day(0), Load: 10},
		{Date: day(2), Load: 5},
		{Date: day(-5), Load: 99},
	}

	loads := DailyLoads(history, day(2), 3)

	require.Len(t, loads, 3)
	assert.Equal(t, []DailyLoad{
		{Date: day(0), Load: 10},
		{Date: day(1), Load: 0},
		{Date: day(2), Load: 35},
	}, loads)
}

func TestMonotony(t *testing.T) {
	tests := []struct {
		name     string
		loads    []float64
		expected float64
		delta    float64
	}{
		{name: "no training", loads: nil, expected: 0},
		{name: "identical days", loads: []float64{50, 50, 50, 50, 50, 50, 50}, expected: 0},
		{
			name:  "rising week",
			loads: []float64{10, 20, 30, 40, 50, 60, 70},
			// mean 40, sample stdev sqrt(2800/6)
			expected: 1.8516,
			delta:    0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var history []LoadRecord
			for i, l := range tt.loads {
				history = append(history, LoadRecord{Date: day(i), Load: l})
			}
			assert.InDelta(t, tt.expected, Monotony(history, day(6)), tt.delta)
		})
	}
}

func TestFormBand(t *testing.T) {
	tests := []struct {
		tsb      float64
		expected string
	}{
		{-45, FormOverload},
		{-30.1, FormOverload},
		{-30, FormOptimal},
		{-10.5, FormOptimal},
		{-10, FormNeutral},
		{9.9, FormNeutral},
		{10, FormDetraining},
		{40, FormDetraining},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormBand(tt.tsb), "tsb %.1f", tt.tsb)
		assert.NotEmpty(t, FormDescription(tt.tsb))
	}
}

func TestSummarizeFitness(t *testing.T) {
	ramp := func(n int, step float64) []FitnessPoint {
		series := make([]FitnessPoint, n)
		for i := range series {
			ctl := float64(i) * step
			series[i] = FitnessPoint{Date: day(i), CTL: ctl, ATL: ctl / 2, TSB: ctl / 2}
		}
		return series
	}

	tests := []struct {
		name     string
		series   []FitnessPoint
		ctlDelta float64
		trend    string
	}{
		{name: "empty", series: nil, ctlDelta: 0, trend: TrendMaintaining},
		{name: "building", series: ramp(10, 1), ctlDelta: 7, trend: TrendBuilding},
		{name: "declining", series: ramp(10, -1), ctlDelta: -7, trend: TrendDeclining},
		{name: "flat", series: ramp(10, 0.1), ctlDelta: 0.7, trend: TrendMaintaining},
		{name: "short series uses first point", series: ramp(3, 1), ctlDelta: 2, trend: TrendBuilding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeFitness(tt.series)
			assert.InDelta(t, tt.ctlDelta, got.CTLDelta, 1e-9)
			assert.InDelta(t, tt.ctlDelta/2, got.TSBDelta, 1e-9)
			assert.Equal(t, tt.trend, got.Trend)
		})
	}
}
