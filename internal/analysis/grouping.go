package analysis

import "strings"

// TranscriptSegment is one raw ASR segment fed to the grouper.
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// GroupSegments greedily merges consecutive transcription segments into
// sentence-scale windows for semantic comparison. A segment joins the open
// window while the window's time span stays within maxSeconds AND its word
// count stays within maxWords; otherwise the window is closed and a new one
// starts with that segment.
//
// Positions in the returned slice are the segment indices the alignment
// reports as seg_idx; callers must keep the slice order intact.
func GroupSegments(segments []TranscriptSegment, maxSeconds float64, maxWords int) []string {
	var (
		out         []string
		buf         []string
		windowStart float64
		open        bool
	)
	for _, s := range segments {
		text := strings.TrimSpace(s.Text)
		if !open {
			windowStart = s.Start
			open = true
		}
		candidate := strings.Join(append(append([]string{}, buf...), text), " ")
		if s.End-windowStart <= maxSeconds && CountWords(candidate) <= maxWords {
			buf = append(buf, text)
		} else {
			if joined := strings.TrimSpace(strings.Join(buf, " ")); joined != "" {
				out = append(out, joined)
			}
			buf = []string{text}
			windowStart = s.Start
		}
	}
	if joined := strings.TrimSpace(strings.Join(buf, " ")); joined != "" {
		out = append(out, joined)
	}
	return out
}
