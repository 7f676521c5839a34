package analysis

import "time"

const (
	ATLDays = 7
	CTLDays = 42

	// DefaultFitnessWindow is the number of days the fitness series covers
	DefaultFitnessWindow = 84

	monotonyDays = 7
	trendDays    = 7

	// trendThreshold is the CTL change that counts as building or declining
	trendThreshold = 1.0
)

// EWMA decay constants
var (
	atlDecay = 2.0 / (ATLDays + 1.0)
	ctlDecay = 2.0 / (CTLDays + 1.0)
)

// DailyLoad represents training load for a single day
type DailyLoad struct {
	Date time.Time
	Load float64
}

// FitnessPoint represents CTL/ATL/TSB for a day
type FitnessPoint struct {
	Date time.Time
	Load float64
	ATL  float64 // Acute Training Load (7-day EWMA) - "Fatigue"
	CTL  float64 // Chronic Training Load (42-day EWMA) - "Fitness"
	TSB  float64 // Training Stress Balance (CTL - ATL) - "Form"
}

// DailyLoads sums loads per calendar day over the windowDays ending at ref.
// Days without sessions are present with zero load. Sorted ascending.
func DailyLoads(history []LoadRecord, ref time.Time, windowDays int) []DailyLoad {
	if windowDays <= 0 {
		return nil
	}
	totals := dailyTotals(history,
		func(r LoadRecord) time.Time { return r.Date },
		func(r LoadRecord) float64 { return r.Load })

	end := Day(ref)
	loads := make([]DailyLoad, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		d := end.AddDate(0, 0, -i)
		loads = append(loads, DailyLoad{Date: d, Load: totals[dayKey(d)]})
	}
	return loads
}

// ComputeFitness computes the ATL/CTL/TSB series over windowDays ending at ref.
// A non-positive window uses DefaultFitnessWindow. Both averages are seeded
// with the first day's load.
func ComputeFitness(history []LoadRecord, ref time.Time, windowDays int) []FitnessPoint {
	if windowDays <= 0 {
		windowDays = DefaultFitnessWindow
	}
	loads := DailyLoads(history, ref, windowDays)

	points := make([]FitnessPoint, 0, len(loads))
	var atl, ctl float64
	for i, dl := range loads {
		if i == 0 {
			atl, ctl = dl.Load, dl.Load
		} else {
			atl = dl.Load*atlDecay + atl*(1-atlDecay)
			ctl = dl.Load*ctlDecay + ctl*(1-ctlDecay)
		}
		points = append(points, FitnessPoint{
			Date: dl.Date,
			Load: dl.Load,
			ATL:  atl,
			CTL:  ctl,
			TSB:  ctl - atl,
		})
	}
	return points
}

// Monotony is mean / stdev of the daily loads of the 7 days ending at ref.
// Returns 0 when the loads do not vary.
func Monotony(history []LoadRecord, ref time.Time) float64 {
	loads := DailyLoads(history, ref, monotonyDays)
	values := make([]float64, len(loads))
	for i, dl := range loads {
		values[i] = dl.Load
	}

	sd := sampleStdDev(values)
	if sd == 0 {
		return 0
	}
	return mean(values) / sd
}

// Form bands
const (
	FormOverload   = "Overload"
	FormOptimal    = "Optimal"
	FormNeutral    = "Neutral"
	FormDetraining = "Detraining"
)

// FormBand classifies TSB
func FormBand(tsb float64) string {
	switch {
	case tsb < -30:
		return FormOverload
	case tsb < -10:
		return FormOptimal
	case tsb < 10:
		return FormNeutral
	default:
		return FormDetraining
	}
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch FormBand(tsb) {
	case FormOverload:
		return "Overload warning - high injury risk, back off"
	case FormOptimal:
		return "Optimal training - building fitness"
	case FormNeutral:
		return "Neutral - transition or maintenance"
	default:
		return "Detraining warning - fitness is fading"
	}
}

// Fitness trends
const (
	TrendBuilding    = "Building"
	TrendMaintaining = "Maintaining"
	TrendDeclining   = "Declining"
)

// FitnessSummary is the latest point of a fitness series with its weekly change
type FitnessSummary struct {
	Latest   FitnessPoint
	CTLDelta float64
	ATLDelta float64
	TSBDelta float64
	Form     string
	Trend    string
}

// SummarizeFitness compares the latest point with the one 7 days earlier.
// Shorter series compare against their first point.
func SummarizeFitness(series []FitnessPoint) FitnessSummary {
	if len(series) == 0 {
		return FitnessSummary{Form: FormBand(0), Trend: TrendMaintaining}
	}

	latest := series[len(series)-1]
	prior := series[0]
	if len(series) > trendDays {
		prior = series[len(series)-1-trendDays]
	}

	s := FitnessSummary{
		Latest:   latest,
		CTLDelta: latest.CTL - prior.CTL,
		ATLDelta: latest.ATL - prior.ATL,
		TSBDelta: latest.TSB - prior.TSB,
		Form:     FormBand(latest.TSB),
	}

	switch {
	case s.CTLDelta > trendThreshold:
		s.Trend = TrendBuilding
	case s.CTLDelta < -trendThreshold:
		s.Trend = TrendDeclining
	default:
		s.Trend = TrendMaintaining
	}
	return s
}
