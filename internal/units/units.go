package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const kmPerMile = 1.609344

// ErrInvalidDuration is returned for durations that cannot be parsed
var ErrInvalidDuration = errors.New("invalid duration")

// ParseDuration reads a session duration as hh:mm:ss, mm:ss or decimal
// minutes and returns minutes.
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}

	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		m, err := strconv.ParseFloat(s, 64)
		if err != nil || m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		return m, nil
	}
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		// every field after the first is base 60
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		values[i] = v
	}

	var seconds int
	for _, v := range values {
		seconds = seconds*60 + v
	}
	return float64(seconds) / 60, nil
}

// FormatDuration renders minutes as h:mm:ss, or m:ss under an hour
func FormatDuration(minutes float64) string {
	if minutes <= 0 {
		return "0:00"
	}
	total := int(math.Round(minutes * 60))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Units provides distance and pace formatting based on user preferences
type Units struct {
	miles bool
}

// New creates a Units helper for "km" or "mi"
func New(distanceUnit string) Units {
	return Units{miles: distanceUnit == "mi"}
}

// FormatDistance formats a distance in kilometres in the preferred unit
func (u Units) FormatDistance(km float64) string {
	if km <= 0 {
		return "-"
	}
	if u.miles {
		return fmt.Sprintf("%.1f mi", km/kmPerMile)
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatPace formats pace from duration in minutes and distance in kilometres
func (u Units) FormatPace(minutes, km float64) string {
	if km <= 0 || minutes <= 0 {
		return "-"
	}

	dist := km
	if u.miles {
		dist = km / kmPerMile
	}
	paceSeconds := int(math.Round(minutes * 60 / dist))
	return fmt.Sprintf("%d:%02d/%s", paceSeconds/60, paceSeconds%60, u.DistanceLabel())
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.miles {
		return "mi"
	}
	return "km"
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.miles
}
