package analysis

import (
	"sort"
	"time"
)

const (
	// BaselineDays is the number of prior health entries the dynamic baseline needs
	BaselineDays = 7

	fixedHighDiff = -2.0
	fixedLowDiff  = 5.0

	dynamicLowRHR  = 3.0
	dynamicLowHRV  = -10.0
	dynamicHighRHR = -2.0
	dynamicHighHRV = -5.0
)

// Tier is a readiness level
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
)

// BaselineKind records which baseline produced an assessment
type BaselineKind string

const (
	BaselineFixed   BaselineKind = "fixed"
	BaselineDynamic BaselineKind = "dynamic"
)

// HealthEntry is one morning physiological reading
type HealthEntry struct {
	Date       time.Time
	RHR        int
	HRV        float64 // 0 = not measured
	SleepHours float64
}

// TierAdvice is the fixed presentation for a tier
type TierAdvice struct {
	Recommendation string
	TargetLoad     string
	Message        string
}

var tierAdvice = map[Tier]TierAdvice{
	TierHigh: {
		Recommendation: "Go hard",
		TargetLoad:     "High intensity: intervals or tempo",
		Message:        "Body is primed. A quality session will pay off today.",
	},
	TierModerate: {
		Recommendation: "Steady state",
		TargetLoad:     "Moderate: Zone 2 aerobic volume",
		Message:        "Normal recovery. Keep it aerobic and controlled.",
	},
	TierLow: {
		Recommendation: "Recover",
		TargetLoad:     "Low: rest or Zone 1 recovery",
		Message:        "Signs of fatigue. Rest or move easy today.",
	},
}

// Advice returns the fixed recommendation for a tier
func (t Tier) Advice() TierAdvice {
	return tierAdvice[t]
}

// Readiness is a daily training recommendation
type Readiness struct {
	Tier           Tier
	Recommendation string
	TargetLoad     string
	Message        string

	Baseline    BaselineKind
	BaselineRHR float64
	BaselineHRV float64 // dynamic only
	RHRDelta    float64
	HRVDelta    float64 // dynamic only
}

func newReadiness(tier Tier, kind BaselineKind) Readiness {
	a := tier.Advice()
	return Readiness{
		Tier:           tier,
		Recommendation: a.Recommendation,
		TargetLoad:     a.TargetLoad,
		Message:        a.Message,
		Baseline:       kind,
	}
}

// DailyTarget rates readiness from the difference between today's resting HR
// and a fixed baseline.
func DailyTarget(todayRHR int, baselineRHR float64) Readiness {
	diff := float64(todayRHR) - baselineRHR

	tier := TierModerate
	switch {
	case diff < fixedHighDiff:
		tier = TierHigh
	case diff > fixedLowDiff:
		tier = TierLow
	}

	r := newReadiness(tier, BaselineFixed)
	r.BaselineRHR = baselineRHR
	r.RHRDelta = diff
	return r
}

// AssessReadiness rates today's reading against the mean of the 7 entries
// immediately before it. With fewer than 7 prior entries it falls back to
// DailyTarget with baselineRHR.
func AssessReadiness(today HealthEntry, history []HealthEntry, baselineRHR float64) Readiness {
	prior := priorEntries(history, today.Date, BaselineDays)
	if len(prior) < BaselineDays {
		return DailyTarget(today.RHR, baselineRHR)
	}

	rhrs := make([]float64, 0, len(prior))
	var hrvs []float64
	for _, e := range prior {
		rhrs = append(rhrs, float64(e.RHR))
		if e.HRV > 0 {
			hrvs = append(hrvs, e.HRV)
		}
	}
	avgRHR := mean(rhrs)
	avgHRV := mean(hrvs)

	rhrDelta := float64(today.RHR) - avgRHR
	var hrvDelta float64
	if today.HRV > 0 && len(hrvs) > 0 {
		hrvDelta = today.HRV - avgHRV
	}

	tier := TierModerate
	switch {
	case rhrDelta > dynamicLowRHR || hrvDelta < dynamicLowHRV:
		tier = TierLow
	case rhrDelta < dynamicHighRHR && hrvDelta > dynamicHighHRV:
		tier = TierHigh
	}

	r := newReadiness(tier, BaselineDynamic)
	r.BaselineRHR = avgRHR
	r.BaselineHRV = avgHRV
	r.RHRDelta = rhrDelta
	r.HRVDelta = hrvDelta
	return r
}

// priorEntries returns up to n entries dated strictly before day, most recent first
func priorEntries(history []HealthEntry, day time.Time, n int) []HealthEntry {
	cutoff := Day(day)
	var prior []HealthEntry
	for _, e := range history {
		if e.RHR <= 0 || !Day(e.Date).Before(cutoff) {
			continue
		}
		prior = append(prior, e)
	}
	sort.SliceStable(prior, func(i, j int) bool {
		return prior[i].Date.After(prior[j].Date)
	})
	if len(prior) > n {
		prior = prior[:n]
	}
	return prior
}

// RollingBaseline averages RHR and HRV over the days days before ref.
// Missing readings are ignored; an empty window gives zeros.
func RollingBaseline(history []HealthEntry, ref time.Time, days int) (rhr, hrv float64) {
	end := Day(ref)
	start := end.AddDate(0, 0, -days)

	var rhrs, hrvs []float64
	for _, e := range history {
		d := Day(e.Date)
		if d.Before(start) || !d.Before(end) {
			continue
		}
		if e.RHR > 0 {
			rhrs = append(rhrs, float64(e.RHR))
		}
		if e.HRV > 0 {
			hrvs = append(hrvs, e.HRV)
		}
	}
	return mean(rhrs), mean(hrvs)
}
