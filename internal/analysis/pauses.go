package analysis

// SpeechSegment is a voice-activity interval, in seconds from the start of
// the recording. Segments are sorted and non-overlapping.
type SpeechSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// LongPause is a silence between two consecutive speech segments that
// reached the pause threshold.
type LongPause struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"dur"`
}

// DetectPauses finds the gaps of at least threshold seconds between
// consecutive speech segments. It also returns the total spoken time (sum of
// segment durations) and the overall time, which is the reported total
// duration unless the last segment ends later — a guard against an
// under-reported total.
func DetectPauses(segments []SpeechSegment, threshold, totalDuration float64) (pauses []LongPause, spokenTime, overallTime float64) {
	for _, s := range segments {
		spokenTime += s.End - s.Start
	}
	overallTime = totalDuration
	if n := len(segments); n > 0 && segments[n-1].End > overallTime {
		overallTime = segments[n-1].End
	}

	pauses = []LongPause{}
	for i := 1; i < len(segments); i++ {
		gap := segments[i].Start - segments[i-1].End
		if gap >= threshold {
			pauses = append(pauses, LongPause{
				Start:    round3(segments[i-1].End),
				End:      round3(segments[i].Start),
				Duration: round3(gap),
			})
		}
	}
	return pauses, spokenTime, overallTime
}
