package analysis

import "time"

// maxSampleGap caps the time credited between two HR samples.
// Longer gaps are recording pauses and contribute nothing.
const maxSampleGap = 10 * time.Minute

// HRSample is one heart rate reading at an offset from the session start
type HRSample struct {
	Offset time.Duration
	HR     int
}

// ZoneMinutesFromSamples converts a heart rate recording into minutes per zone.
// Each interval is credited to the zone of the reading that starts it.
// Samples must be ordered by offset; invalid readings (<= 0 bpm) are skipped.
func ZoneMinutesFromSamples(samples []HRSample, p UserProfile) [5]float64 {
	var minutes [5]float64

	for i := 0; i < len(samples)-1; i++ {
		curr, next := samples[i], samples[i+1]
		if curr.HR <= 0 {
			continue
		}
		gap := next.Offset - curr.Offset
		if gap <= 0 || gap > maxSampleGap {
			continue
		}
		zone := p.ZoneIndex(float64(curr.HR))
		if zone < 0 {
			continue
		}
		minutes[zone] += gap.Minutes()
	}

	return minutes
}

// AverageHR returns the mean of valid samples, rounded to the nearest bpm
func AverageHR(samples []HRSample) int {
	var sum, count int
	for _, s := range samples {
		if s.HR > 0 {
			sum += s.HR
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return (sum + count/2) / count
}
