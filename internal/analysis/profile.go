package analysis

import "math"

// Gender selects the Banister exponent used in TRIMP
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Banister TRIMP exponents
const (
	maleExponent   = 1.92
	femaleExponent = 1.67
)

// DefaultZoneThresholds are the upper bounds of zones 1-4 as a fraction of max HR.
// They apply when the profile carries neither explicit bounds nor legacy limits.
var DefaultZoneThresholds = [4]float64{0.6, 0.7, 0.8, 0.9}

// ZoneBounds holds explicit heart rate zone bounds in bpm.
// Zone 1 has only an upper bound and zone 5 only a lower bound; the open ends
// are resting HR and max HR.
type ZoneBounds struct {
	Z1Upper float64 `json:"z1_upper"`
	Z2Lower float64 `json:"z2_lower"`
	Z2Upper float64 `json:"z2_upper"`
	Z3Lower float64 `json:"z3_lower"`
	Z3Upper float64 `json:"z3_upper"`
	Z4Lower float64 `json:"z4_lower"`
	Z4Upper float64 `json:"z4_upper"`
	Z5Lower float64 `json:"z5_lower"`
}

// IsZero reports whether no bound is set
func (z ZoneBounds) IsZero() bool {
	return z == ZoneBounds{}
}

// Zone is a resolved heart rate range
type Zone struct {
	Lower float64
	Upper float64
}

// Midpoint returns the representative heart rate of the zone
func (z Zone) Midpoint() float64 {
	return (z.Lower + z.Upper) / 2
}

// UserProfile is the athlete configuration every engine call depends on.
// It is passed by value and never mutated by the engine.
type UserProfile struct {
	RestingHR float64
	MaxHR     float64
	VO2Max    float64
	Gender    Gender

	// Zones takes precedence over ZoneLimits when any bound is set.
	Zones ZoneBounds
	// ZoneLimits is the legacy form: upper limit of each zone, lowest first.
	ZoneLimits []float64

	// Rolling reference values maintained outside the engine
	MonthAvgRHR float64
	MonthAvgHRV float64
}

// HRR converts a heart rate to a heart-rate-reserve fraction clamped to [0, 1].
// A non-positive reserve (max HR <= resting HR) yields 0.
func (p UserProfile) HRR(hr float64) float64 {
	reserve := p.MaxHR - p.RestingHR
	if reserve <= 0 || hr <= 0 {
		return 0
	}
	return clamp((hr-p.RestingHR)/reserve, 0, 1)
}

// Exponent returns the Banister weighting exponent for the profile's gender
func (p UserProfile) Exponent() float64 {
	if p.Gender == GenderMale {
		return maleExponent
	}
	return femaleExponent
}

// HasZoneDefinition reports whether explicit or legacy zones are configured
func (p UserProfile) HasZoneDefinition() bool {
	return !p.Zones.IsZero() || hasPositive(p.ZoneLimits)
}

// ResolvedZones returns the five heart rate zones of the profile.
func (p UserProfile) ResolvedZones() [5]Zone {
	switch {
	case !p.Zones.IsZero():
		return p.explicitZones()
	case hasPositive(p.ZoneLimits):
		return p.legacyZones()
	default:
		return p.defaultZones()
	}
}

func (p UserProfile) explicitZones() [5]Zone {
	b := p.Zones
	lowers := [5]float64{p.RestingHR, b.Z2Lower, b.Z3Lower, b.Z4Lower, b.Z5Lower}
	uppers := [5]float64{b.Z1Upper, b.Z2Upper, b.Z3Upper, b.Z4Upper, p.MaxHR}
	def := p.defaultZones()

	// Missing bounds chain from the previous resolved zone, then the next
	// configured lower bound, then the default thresholds. No filled bound is 0.
	var zones [5]Zone
	for i := range zones {
		lower := lowers[i]
		if lower <= 0 && i > 0 {
			switch prev := zones[i-1]; {
			case prev.Upper > 0:
				lower = prev.Upper
			case prev.Lower > 0:
				lower = prev.Lower
			default:
				lower = def[i].Lower
			}
		}

		upper := uppers[i]
		if upper <= 0 && i < 4 {
			upper = lowers[i+1]
			if upper <= 0 {
				upper = def[i].Upper
			}
		}
		if upper < lower {
			upper = lower
		}

		if p.MaxHR > 0 {
			lower = math.Min(lower, p.MaxHR)
			upper = math.Min(upper, p.MaxHR)
		}
		zones[i] = Zone{Lower: lower, Upper: upper}
	}
	return zones
}

func (p UserProfile) legacyZones() [5]Zone {
	var zones [5]Zone
	lower := p.RestingHR
	for i := range zones {
		upper := p.MaxHR
		if i < 4 && i < len(p.ZoneLimits) && p.ZoneLimits[i] > 0 {
			upper = p.ZoneLimits[i]
		}
		zones[i] = Zone{Lower: lower, Upper: upper}
		lower = upper
	}
	return zones
}

func (p UserProfile) defaultZones() [5]Zone {
	var zones [5]Zone
	lower := p.RestingHR
	for i := range zones {
		upper := p.MaxHR
		if i < len(DefaultZoneThresholds) {
			upper = p.MaxHR * DefaultZoneThresholds[i]
		}
		zones[i] = Zone{Lower: lower, Upper: upper}
		lower = upper
	}
	return zones
}

// ZoneIndex returns the 0-based zone that contains hr, or -1 for hr <= 0.
// Heart rates above zone 4 land in zone 5.
func (p UserProfile) ZoneIndex(hr float64) int {
	if hr <= 0 {
		return -1
	}
	zones := p.ResolvedZones()
	for i := 0; i < 4; i++ {
		if hr <= zones[i].Upper {
			return i
		}
	}
	return 4
}

func hasPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
