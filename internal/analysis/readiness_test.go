package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyTarget(t *testing.T) {
	tests := []struct {
		name     string
		today    int
		baseline float64
		expected Tier
	}{
		{name: "well below baseline", today: 55, baseline: 60, expected: TierHigh},
		{name: "well above baseline", today: 66, baseline: 60, expected: TierLow},
		{name: "near baseline", today: 61, baseline: 60, expected: TierModerate},
		{name: "high edge", today: 58, baseline: 60, expected: TierModerate},
		{name: "low edge", today: 65, baseline: 60, expected: TierModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyTarget(tt.today, tt.baseline)
			assert.Equal(t, tt.expected, got.Tier)
			assert.Equal(t, BaselineFixed, got.Baseline)
			assert.Equal(t, tt.expected.Advice().Recommendation, got.Recommendation)
			assert.InDelta(t, float64(tt.today)-tt.baseline, got.RHRDelta, 1e-9)
		})
	}
}

func TestTierAdvice(t *testing.T) {
	assert.Equal(t, "Go hard", TierHigh.Advice().Recommendation)
	assert.Equal(t, "Steady state", TierModerate.Advice().Recommendation)
	assert.Equal(t, "Recover", TierLow.Advice().Recommendation)

	for _, tier := range []Tier{TierLow, TierModerate, TierHigh} {
		a := tier.Advice()
		assert.NotEmpty(t, a.TargetLoad, tier)
		assert.NotEmpty(t, a.Message, tier)
	}
}

// stableWeek returns the 7 entries before testDay with the given readings
func stableWeek(rhr int, hrv float64) []HealthEntry {
	entries := make([]HealthEntry, 0, 7)
	for i := 1; i <= 7; i++ {
		entries = append(entries, HealthEntry{Date: day(-i), RHR: rhr, HRV: hrv})
	}
	return entries
}

func TestAssessReadinessFallsBackWithShortHistory(t *testing.T) {
	history := stableWeek(70, 40)[:3]

	for _, today := range []int{55, 61, 66} {
		got := AssessReadiness(HealthEntry{Date: testDay, RHR: today, HRV: 50}, history, 60)
		want := DailyTarget(today, 60)
		assert.Equal(t, want, got, "rhr %d", today)
	}
}

func TestAssessReadinessDynamic(t *testing.T) {
	history := stableWeek(60, 50)

	tests := []struct {
		name     string
		today    HealthEntry
		expected Tier
	}{
		{name: "elevated rhr", today: HealthEntry{RHR: 64, HRV: 55}, expected: TierLow},
		{name: "hrv drop", today: HealthEntry{RHR: 60, HRV: 38}, expected: TierLow},
		{name: "primed", today: HealthEntry{RHR: 57, HRV: 48}, expected: TierHigh},
		{name: "primed without hrv", today: HealthEntry{RHR: 57}, expected: TierHigh},
		{name: "rhr down but hrv falling", today: HealthEntry{RHR: 57, HRV: 44}, expected: TierModerate},
		{name: "normal", today: HealthEntry{RHR: 60, HRV: 50}, expected: TierModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.today.Date = testDay
			got := AssessReadiness(tt.today, history, 0)
			assert.Equal(t, tt.expected, got.Tier)
			assert.Equal(t, BaselineDynamic, got.Baseline)
			assert.InDelta(t, 60.0, got.BaselineRHR, 1e-9)
		})
	}
}

func TestAssessReadinessUsesSevenMostRecent(t *testing.T) {
	history := stableWeek(60, 50)
	history = append(history,
		HealthEntry{Date: day(-8), RHR: 80, HRV: 20},
		HealthEntry{Date: day(-9), RHR: 80, HRV: 20},
		HealthEntry{Date: testDay, RHR: 90, HRV: 10}, // today is not part of its own baseline
		HealthEntry{Date: day(2), RHR: 90, HRV: 10},  // future
	)

	got := AssessReadiness(HealthEntry{Date: testDay.Add(8 * time.Hour), RHR: 62, HRV: 52}, history, 0)

	assert.Equal(t, BaselineDynamic, got.Baseline)
	assert.InDelta(t, 60.0, got.BaselineRHR, 1e-9)
	assert.InDelta(t, 50.0, got.BaselineHRV, 1e-9)
	assert.InDelta(t, 2.0, got.RHRDelta, 1e-9)
	assert.InDelta(t, 2.0, got.HRVDelta, 1e-9)
	assert.Equal(t, TierModerate, got.Tier)
}

func TestAssessReadinessNoPriorHRV(t *testing.T) {
	history := stableWeek(60, 0)

	got := AssessReadiness(HealthEntry{Date: testDay, RHR: 60, HRV: 20}, history, 0)

	assert.Zero(t, got.HRVDelta)
	assert.Equal(t, TierModerate, got.Tier)
}

func TestRollingBaseline(t *testing.T) {
	history := []HealthEntry{
		{Date: day(-1), RHR: 58, HRV: 60},
		{Date: day(-2), RHR: 62},
		{Date: day(-30), RHR: 60, HRV: 40},
		{Date: day(-31), RHR: 90, HRV: 5},
		{Date: day(0), RHR: 90, HRV: 5},
	}

	rhr, hrv := RollingBaseline(history, testDay, 30)

	assert.InDelta(t, 60.0, rhr, 1e-9)
	assert.InDelta(t, 50.0, hrv, 1e-9)

	rhr, hrv = RollingBaseline(nil, testDay, 30)
	assert.Zero(t, rhr)
	assert.Zero(t, hrv)
}
