package analysis

import "time"

// Meta describes the run that produced a report.
type Meta struct {
	AudioPath         string    `json:"audio_path"`
	AudioHash         string    `json:"audio_hash,omitempty"`
	Language          string    `json:"language"`
	Model             string    `json:"model,omitempty"`
	PauseThresholdSec float64   `json:"pause_threshold_sec"`
	CoverageThreshold float64   `json:"coverage_threshold"`
	GeneratedAt       time.Time `json:"generated_at"`
	Warnings          []string  `json:"warnings,omitempty"`
}

// AnalysisReport is the full detailed output of one analysis run. All
// numeric fields are final measured values; nothing is re-derived on read,
// so a report survives a serialize/deserialize round trip bit for bit.
type AnalysisReport struct {
	Meta             Meta             `json:"meta"`
	TranscriptText   string           `json:"transcript_text"`
	DurationTotal    float64          `json:"duration_sec_total"`
	DurationSpoken   float64          `json:"duration_sec_spoken"`
	WordsTotal       int              `json:"words_total"`
	WPMOverall       float64          `json:"wpm_overall"`
	WPMSpoken        float64          `json:"wpm_spoken"`
	SpeechSegments   []SpeechSegment  `json:"speech_segments"`
	LongPauses       []LongPause      `json:"long_pauses"`
	FillerWords      []PatternHits    `json:"filler_words"`
	FillerCountTotal int              `json:"filler_count_total"`
	HedgePhrases     []PatternHits    `json:"hedge_phrases"`
	HedgeCountTotal  int              `json:"hedge_count_total"`
	ScriptAlignment  *CoverageResult  `json:"script_alignment"`
	MicQuality       MicQuality       `json:"mic_quality"`
	Checklist        []ChecklistItem  `json:"checklist"`

	// SegmentTexts holds the grouped segment texts used for alignment; the
	// report archive indexes them for similarity search.
	SegmentTexts []string `json:"segment_texts,omitempty"`
}

// TotalCount sums the per-pattern counts of a hit list.
func TotalCount(hits []PatternHits) int {
	var n int
	for _, h := range hits {
		n += h.Count
	}
	return n
}

// CoveragePercent returns the coverage percentage, or nil when alignment was
// not performed. Checklist grading keys off this.
func (r *AnalysisReport) CoveragePercent() *float64 {
	if r.ScriptAlignment == nil {
		return nil
	}
	v := r.ScriptAlignment.Coverage
	return &v
}
