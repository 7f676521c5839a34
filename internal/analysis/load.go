package analysis

import (
	"math"
	"time"
)

const (
	// trimpWeight is the Banister scaling constant
	trimpWeight = 0.64
	// rpeLoadFactor converts minutes x RPE into TRIMP-like units
	rpeLoadFactor = 0.3
	maxRPE        = 10

	// trainingEffectScale divides load by VO2max * scale
	trainingEffectScale = 1.5
	maxTrainingEffect   = 5.0
)

// Session is the engine's view of one training session
type Session struct {
	Date            time.Time
	DurationMinutes float64
	AvgHR           int // 0 = unknown
	RPE             int // 0 = absent, otherwise 1-10
	ZoneMinutes     [5]float64
}

// Focus splits a load across intensity buckets
type Focus struct {
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	Anaerobic float64 `json:"anaerobic"`
}

// Total returns the sum of all buckets
func (f Focus) Total() float64 {
	return f.Low + f.High + f.Anaerobic
}

// Add returns the bucket-wise sum of f and o
func (f Focus) Add(o Focus) Focus {
	return Focus{
		Low:       f.Low + o.Low,
		High:      f.High + o.High,
		Anaerobic: f.Anaerobic + o.Anaerobic,
	}
}

// LoadSource identifies which intensity signal produced a load
type LoadSource int

const (
	SourceNone LoadSource = iota
	SourceZones
	SourceAvgHR
	SourceRPE
)

func (s LoadSource) String() string {
	switch s {
	case SourceZones:
		return "zones"
	case SourceAvgHR:
		return "avg_hr"
	case SourceRPE:
		return "rpe"
	default:
		return "none"
	}
}

// SessionLoad is the computed training load of a session
type SessionLoad struct {
	Load   float64
	Focus  Focus
	Source LoadSource
}

// TRIMP calculates Banister training impulse for minutes spent at a
// heart-rate-reserve fraction: minutes * hrr * 0.64 * e^(k * hrr)
func TRIMP(minutes, hrr, exponent float64) float64 {
	if minutes <= 0 || hrr <= 0 {
		return 0
	}
	return minutes * hrr * trimpWeight * math.Exp(exponent*hrr)
}

// ComputeLoad converts a session's duration and intensity signal into a load
// and its intensity split.
//
// Zone minutes win when present and the profile defines zone bounds, then
// average HR, then RPE. The RPE fallback
// only applies when the heart rate path produced nothing. Negative inputs
// count as absent.
func ComputeLoad(s Session, p UserProfile) SessionLoad {
	var result SessionLoad

	switch {
	case zoneTotal(s.ZoneMinutes) > 0 && p.HasZoneDefinition():
		result = zoneLoad(s.ZoneMinutes, p)
	case s.AvgHR > 0:
		result = avgHRLoad(s.DurationMinutes, float64(s.AvgHR), p)
	}
	if result.Load > 0 {
		return result
	}

	if s.RPE > 0 && s.DurationMinutes > 0 {
		return rpeLoad(s.DurationMinutes, s.RPE)
	}
	return SessionLoad{}
}

func zoneTotal(minutes [5]float64) float64 {
	var total float64
	for _, m := range minutes {
		if m > 0 {
			total += m
		}
	}
	return total
}

// zoneLoad sums one TRIMP segment per zone at the zone's midpoint HR.
// Zones 1-2 feed low, 3-4 high and 5 anaerobic.
func zoneLoad(minutes [5]float64, p UserProfile) SessionLoad {
	zones := p.ResolvedZones()
	k := p.Exponent()

	var focus Focus
	for i, m := range minutes {
		if m <= 0 {
			continue
		}
		segment := TRIMP(m, p.HRR(zones[i].Midpoint()), k)
		switch {
		case i <= 1:
			focus.Low += segment
		case i <= 3:
			focus.High += segment
		default:
			focus.Anaerobic += segment
		}
	}

	return SessionLoad{Load: focus.Total(), Focus: focus, Source: SourceZones}
}

func avgHRLoad(duration, avgHR float64, p UserProfile) SessionLoad {
	load := TRIMP(duration, p.HRR(avgHR), p.Exponent())
	if load <= 0 {
		return SessionLoad{}
	}

	zones := p.ResolvedZones()
	var focus Focus
	switch {
	case avgHR > zones[3].Upper:
		focus.Anaerobic = load
	case avgHR > zones[1].Upper:
		focus.High = load
	default:
		focus.Low = load
	}
	return SessionLoad{Load: load, Focus: focus, Source: SourceAvgHR}
}

func rpeLoad(duration float64, rpe int) SessionLoad {
	if rpe > maxRPE {
		rpe = maxRPE
	}
	load := duration * float64(rpe) * rpeLoadFactor

	var focus Focus
	switch {
	case rpe >= 8:
		focus.Anaerobic = load
	case rpe >= 6:
		focus.High = load
	default:
		focus.Low = load
	}
	return SessionLoad{Load: load, Focus: focus, Source: SourceRPE}
}

// TrainingEffect is a 0-5 score of a session's stimulus
type TrainingEffect struct {
	Value float64
	Label string
}

// ComputeTrainingEffect scales a load against the athlete's VO2max.
// Returns 0 when VO2max is unknown.
func ComputeTrainingEffect(load, vo2Max float64) TrainingEffect {
	if vo2Max <= 0 || load <= 0 {
		return TrainingEffect{Value: 0, Label: TrainingEffectLabel(0)}
	}
	te := round1(math.Min(maxTrainingEffect, load/(vo2Max*trainingEffectScale)))
	return TrainingEffect{Value: te, Label: TrainingEffectLabel(te)}
}

// TrainingEffectLabel returns the qualitative band of a training effect score
func TrainingEffectLabel(te float64) string {
	switch {
	case te >= 5:
		return "Overreaching"
	case te >= 4:
		return "Highly Improving"
	case te >= 3:
		return "Improving"
	case te >= 2:
		return "Productive"
	case te >= 1:
		return "Maintaining"
	default:
		return "Recovery"
	}
}
