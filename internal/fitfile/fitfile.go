package fitfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tormoder/fit"

	"runlog/internal/analysis"
	"runlog/internal/store"
)

// invalidHR is the FIT sentinel for a missing heart rate
const invalidHR = 255

// ErrNoSession is returned for FIT files without a session message
var ErrNoSession = errors.New("fit file has no session")

// Activity is the training data extracted from a FIT activity file
type Activity struct {
	ExternalID      string // session start time, stable across re-imports
	StartTime       time.Time
	Type            string
	DurationMinutes float64
	DistanceKm      float64
	AvgHR           int
	Samples         []analysis.HRSample
}

// Parse decodes the FIT file at path
func Parse(path string) (*Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Decode reads a FIT activity file
func Decode(r io.Reader) (*Activity, error) {
	fd, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding fit: %w", err)
	}

	af, err := fd.Activity()
	if err != nil {
		return nil, fmt.Errorf("reading activity: %w", err)
	}
	return fromActivityFile(af)
}

func fromActivityFile(af *fit.ActivityFile) (*Activity, error) {
	if af == nil || len(af.Sessions) == 0 || af.Sessions[0] == nil {
		return nil, ErrNoSession
	}
	s := af.Sessions[0]

	// total_timer_time is ms, total_distance is cm
	a := &Activity{
		ExternalID:      s.StartTime.UTC().Format(time.RFC3339),
		StartTime:       s.StartTime,
		Type:            sessionType(s.Sport),
		DurationMinutes: float64(s.TotalTimerTime) / 1000 / 60,
		DistanceKm:      float64(s.TotalDistance) / 100 / 1000,
	}
	if s.AvgHeartRate != invalidHR {
		a.AvgHR = int(s.AvgHeartRate)
	}

	for _, rec := range af.Records {
		if rec == nil || rec.HeartRate == 0 || rec.HeartRate == invalidHR {
			continue
		}
		a.Samples = append(a.Samples, analysis.HRSample{
			Offset: rec.Timestamp.Sub(s.StartTime),
			HR:     int(rec.HeartRate),
		})
	}

	if a.AvgHR == 0 {
		a.AvgHR = analysis.AverageHR(a.Samples)
	}
	return a, nil
}

func sessionType(sport fit.Sport) string {
	switch sport {
	case fit.SportRunning:
		return store.TypeRun
	case fit.SportWalking, fit.SportHiking:
		return store.TypeWalk
	case fit.SportCycling:
		return store.TypeRide
	case fit.SportTraining:
		return store.TypeGym
	default:
		return store.TypeOther
	}
}
