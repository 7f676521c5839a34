package analysis

import "time"

const (
	AcuteWindowDays   = 7
	ChronicWindowDays = 28
	chronicWeeks      = 4

	// chronicSentinel replaces a zero chronic weekly load so the ratio stays finite
	chronicSentinel = 1.0

	optimalRatioLow  = 0.8
	optimalRatioHigh = 1.3
	spikeRatio       = 1.5

	// anaerobicFeedbackMinTotal suppresses anaerobic nagging for low-volume athletes
	anaerobicFeedbackMinTotal = 500.0
)

// Status labels
const (
	StatusOverreaching = "Overreaching"
	StatusHighStrain   = "High Strain"
	StatusProductive   = "Productive"
	StatusMaintaining  = "Maintaining"
	StatusRecovery     = "Recovery / Detraining"
)

// LoadRecord is a computed session load on a calendar day
type LoadRecord struct {
	Date  time.Time
	Load  float64
	Focus Focus
}

// DayStatus is one day of the acute:chronic series
type DayStatus struct {
	Date          time.Time
	Acute         float64
	ChronicTotal  float64
	ChronicWeekly float64
	Ratio         float64
	OptimalLow    float64
	OptimalHigh   float64
}

// StatusSnapshot describes training status on the reference date
type StatusSnapshot struct {
	Date          time.Time
	Acute         float64
	Chronic       float64 // 28-day total
	ChronicWeekly float64
	Ratio         float64
	Label         string
	Rationale     string
	Buckets       Focus // 28-day focus totals
	Feedback      FocusFeedback
}

// StatusSeries computes the acute:chronic values for each of the 28 days
// ending at ref, oldest first. Every day is computed from its own windows.
func StatusSeries(history []LoadRecord, ref time.Time) []DayStatus {
	totals := dailyTotals(history,
		func(r LoadRecord) time.Time { return r.Date },
		func(r LoadRecord) float64 { return r.Load })

	end := Day(ref)
	series := make([]DayStatus, 0, ChronicWindowDays)
	for i := ChronicWindowDays - 1; i >= 0; i-- {
		d := end.AddDate(0, 0, -i)
		series = append(series, dayStatus(totals, d))
	}
	return series
}

func dayStatus(totals map[string]float64, d time.Time) DayStatus {
	acute := windowSum(totals, d, AcuteWindowDays)
	chronicTotal := windowSum(totals, d, ChronicWindowDays)

	chronicWeekly := chronicSentinel
	if chronicTotal > 0 {
		chronicWeekly = chronicTotal / chronicWeeks
	}

	return DayStatus{
		Date:          d,
		Acute:         acute,
		ChronicTotal:  chronicTotal,
		ChronicWeekly: chronicWeekly,
		Ratio:         acute / chronicWeekly,
		OptimalLow:    chronicWeekly * optimalRatioLow,
		OptimalHigh:   chronicWeekly * optimalRatioHigh,
	}
}

// ComputeStatus returns the training status snapshot at ref
func ComputeStatus(history []LoadRecord, ref time.Time) StatusSnapshot {
	series := StatusSeries(history, ref)
	today := series[len(series)-1]

	label, rationale := ClassifyRatio(today.Ratio, today.Acute, today.ChronicWeekly)
	buckets := focusBuckets(history, ref)

	return StatusSnapshot{
		Date:          today.Date,
		Acute:         today.Acute,
		Chronic:       today.ChronicTotal,
		ChronicWeekly: today.ChronicWeekly,
		Ratio:         today.Ratio,
		Label:         label,
		Rationale:     rationale,
		Buckets:       buckets,
		Feedback:      AssessFocus(buckets),
	}
}

// ClassifyRatio maps an acute:chronic ratio to a status label and rationale
func ClassifyRatio(ratio, acute, chronicWeekly float64) (label, rationale string) {
	switch {
	case ratio > spikeRatio:
		return StatusOverreaching, "spike risk"
	case ratio >= optimalRatioHigh:
		return StatusHighStrain, "rapid increase"
	case ratio >= optimalRatioLow && acute > chronicWeekly:
		return StatusProductive, "optimal building"
	case ratio >= optimalRatioLow:
		return StatusMaintaining, "stable"
	default:
		return StatusRecovery, "declining load"
	}
}

// focusBuckets totals the focus split of sessions in the 28 days ending at ref
func focusBuckets(history []LoadRecord, ref time.Time) Focus {
	end := Day(ref)
	start := end.AddDate(0, 0, -(ChronicWindowDays - 1))

	var buckets Focus
	for _, r := range history {
		d := Day(r.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		buckets = buckets.Add(nonNegative(r.Focus))
	}
	return buckets
}

func nonNegative(f Focus) Focus {
	return Focus{
		Low:       max(f.Low, 0),
		High:      max(f.High, 0),
		Anaerobic: max(f.Anaerobic, 0),
	}
}

// FocusBucket names an intensity bucket
type FocusBucket string

const (
	BucketLow       FocusBucket = "low"
	BucketHigh      FocusBucket = "high"
	BucketAnaerobic FocusBucket = "anaerobic"
)

// FocusTarget is the desired share of total load for a bucket
type FocusTarget struct {
	Bucket FocusBucket
	Min    float64
	Max    float64
}

// FocusTargets lists the target bands in shortage priority order
var FocusTargets = []FocusTarget{
	{Bucket: BucketLow, Min: 0.70, Max: 0.90},
	{Bucket: BucketHigh, Min: 0.10, Max: 0.25},
	{Bucket: BucketAnaerobic, Min: 0.0, Max: 0.10},
}

// Feedback kinds
const (
	FeedbackNoData   = "no_data"
	FeedbackShortage = "shortage"
	FeedbackExcess   = "excess"
	FeedbackBalanced = "balanced"
)

// FocusFeedback is the intensity distribution advice for the last 28 days
type FocusFeedback struct {
	Kind    string
	Bucket  FocusBucket // set for shortage and excess
	Share   float64     // bucket share of total load
	Message string
}

var shortageMessages = map[FocusBucket]string{
	BucketLow:       "Low aerobic shortage: add easy Zone 1-2 volume",
	BucketHigh:      "High aerobic shortage: add tempo or threshold work",
	BucketAnaerobic: "Anaerobic shortage: add short VO2max intervals",
}

// AssessFocus compares the bucket shares against FocusTargets
func AssessFocus(buckets Focus) FocusFeedback {
	total := buckets.Total()
	if total <= 0 {
		return FocusFeedback{Kind: FeedbackNoData, Message: "No training load recorded in the last 28 days"}
	}

	shares := map[FocusBucket]float64{
		BucketLow:       buckets.Low / total,
		BucketHigh:      buckets.High / total,
		BucketAnaerobic: buckets.Anaerobic / total,
	}

	for _, t := range FocusTargets {
		if t.Bucket == BucketAnaerobic && total <= anaerobicFeedbackMinTotal {
			continue
		}
		if shares[t.Bucket] < t.Min {
			return FocusFeedback{
				Kind:    FeedbackShortage,
				Bucket:  t.Bucket,
				Share:   shares[t.Bucket],
				Message: shortageMessages[t.Bucket],
			}
		}
	}

	low := FocusTargets[0]
	if shares[BucketLow] > low.Max {
		return FocusFeedback{
			Kind:    FeedbackExcess,
			Bucket:  BucketLow,
			Share:   shares[BucketLow],
			Message: "High volume of easy work: consider adding intensity",
		}
	}

	return FocusFeedback{Kind: FeedbackBalanced, Message: "Balanced intensity distribution"}
}
