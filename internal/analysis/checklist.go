package analysis

// Status grades one checklist item. It is a closed set; the free-form status
// strings of early prototypes were a reliable source of typo bugs.
type Status string

const (
	StatusGood          Status = "good"
	StatusWarning       Status = "warning"
	StatusError         Status = "error"
	StatusNotApplicable Status = "not_applicable"
)

// IsValid reports whether s is a recognised status.
func (s Status) IsValid() bool {
	switch s {
	case StatusGood, StatusWarning, StatusError, StatusNotApplicable:
		return true
	}
	return false
}

// severity orders statuses for combining two partial grades.
func severity(s Status) int {
	switch s {
	case StatusError:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

func worse(a, b Status) Status {
	if severity(b) > severity(a) {
		return b
	}
	return a
}

// ChecklistItem is one graded diagnostic entry. Every key is always present
// in a report's checklist; a metric whose inputs are missing is graded
// not-applicable, never omitted.
type ChecklistItem struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Status    Status             `json:"status"`
	Substatus string             `json:"substatus,omitempty"`
	Values    map[string]float64 `json:"values,omitempty"`
	Advice    string             `json:"advice"`
	Target    string             `json:"target"`
}

// ChecklistInput carries every measurement the graders consume.
type ChecklistInput struct {
	SpokenWPM       float64
	WordsTotal      int
	Pauses          []LongPause
	SpokenTime      float64
	OverallTime     float64
	FillerCount     int
	HedgeCount      int
	Coverage        *float64 // nil when no script
	PlannedDuration *float64 // nil when not supplied
	SpeechWindowSec float64
	Quality         MicQuality
}

// BuildChecklist grades all metrics. The result always contains the same
// keys in the same order.
func BuildChecklist(in ChecklistInput) []ChecklistItem {
	return []ChecklistItem{
		gradePace(in.SpokenWPM),
		gradePauses(in.Pauses, in.OverallTime),
		gradePer100("fillers", "Filler words", float64(in.FillerCount), in.WordsTotal, 1.0, 3.0),
		gradePer100("hedges", "Hedging language", float64(in.HedgeCount), in.WordsTotal, 0.5, 1.5),
		gradeCoverage(in.Coverage),
		gradeTiming(in.PlannedDuration, in.SpeechWindowSec),
		gradeSpokenRatio(in.SpokenTime, in.OverallTime),
		gradeLoudness(in.Quality),
		gradeNoise(in.Quality.SNRdB),
	}
}

// finish fills the advice and target strings from the lookup tables.
func finish(item ChecklistItem) ChecklistItem {
	item.Advice = adviceFor(item.Key, item.Status, item.Substatus)
	item.Target = targetFor(item.Key)
	return item
}

// gradePace grades the spoken words-per-minute. A zero rate means no spoken
// time was measured at all, which grades not-applicable rather than
// "too slow".
func gradePace(wpm float64) ChecklistItem {
	item := ChecklistItem{Key: "pace", Label: "Speaking pace"}
	switch {
	case wpm <= 0:
		item.Status = StatusNotApplicable
	case wpm < 90:
		item.Status, item.Substatus = StatusError, "too_slow"
	case wpm < 110:
		item.Status, item.Substatus = StatusWarning, "too_slow"
	case wpm <= 140:
		item.Status = StatusGood
	case wpm <= 160:
		item.Status, item.Substatus = StatusWarning, "too_fast"
	default:
		item.Status, item.Substatus = StatusError, "too_fast"
	}
	if wpm > 0 {
		item.Values = map[string]float64{"wpm_spoken": wpm}
	}
	return finish(item)
}

// gradePauses combines two partial grades: the long-pause rate per minute
// and the longest pause duration. The overall status is the worse of the
// two, with a combined substatus when both miss their target.
func gradePauses(pauses []LongPause, overallTime float64) ChecklistItem {
	var perMin, maxDur float64
	if overallTime > 0 {
		perMin = float64(len(pauses)) / (overallTime / 60)
	}
	for _, p := range pauses {
		if p.Duration > maxDur {
			maxDur = p.Duration
		}
	}

	rateStatus := StatusGood
	switch {
	case perMin > 1.5:
		rateStatus = StatusError
	case perMin > 0.5:
		rateStatus = StatusWarning
	}
	durStatus := StatusGood
	switch {
	case maxDur > 4:
		durStatus = StatusError
	case maxDur > 3:
		durStatus = StatusWarning
	}

	item := ChecklistItem{
		Key:    "pauses",
		Label:  "Long pauses",
		Status: worse(rateStatus, durStatus),
		Values: map[string]float64{
			"per_min": round2(perMin),
			"max_sec": round2(maxDur),
		},
	}
	switch {
	case rateStatus != StatusGood && durStatus != StatusGood:
		item.Substatus = "frequent_and_long"
	case rateStatus != StatusGood:
		item.Substatus = "too_frequent"
	case durStatus != StatusGood:
		item.Substatus = "too_long"
	}
	return finish(item)
}

// gradePer100 grades a disfluency count normalized per 100 words against
// good/warning ceilings. With zero words there is nothing to normalize.
func gradePer100(key, label string, count float64, words int, goodMax, warnMax float64) ChecklistItem {
	item := ChecklistItem{Key: key, Label: label}
	if words <= 0 {
		item.Status = StatusNotApplicable
		return finish(item)
	}
	per100 := round2(100 * count / float64(words))
	item.Values = map[string]float64{"per_100_words": per100, "count": count}
	switch {
	case per100 <= goodMax:
		item.Status = StatusGood
	case per100 <= warnMax:
		item.Status = StatusWarning
	default:
		item.Status = StatusError
	}
	return finish(item)
}

func gradeCoverage(coverage *float64) ChecklistItem {
	item := ChecklistItem{Key: "coverage", Label: "Script coverage"}
	if coverage == nil {
		item.Status = StatusNotApplicable
		return finish(item)
	}
	item.Values = map[string]float64{"percent": *coverage}
	switch {
	case *coverage >= 90:
		item.Status = StatusGood
	case *coverage >= 75:
		item.Status = StatusWarning
	default:
		item.Status = StatusError
	}
	return finish(item)
}

// gradeTiming compares the speech window against the planned duration.
// Both ±5% and ±10% bounds are inclusive, so a ratio of exactly 1.05 is
// still good.
func gradeTiming(planned *float64, windowSec float64) ChecklistItem {
	item := ChecklistItem{Key: "timing", Label: "Timing accuracy"}
	if planned == nil || *planned <= 0 || windowSec <= 0 {
		item.Status = StatusNotApplicable
		return finish(item)
	}
	ratio := windowSec / *planned
	item.Values = map[string]float64{
		"ratio":       round3(ratio),
		"window_sec":  round2(windowSec),
		"planned_sec": *planned,
	}
	sub := "under"
	if ratio > 1 {
		sub = "over"
	}
	switch {
	case ratio >= 0.95 && ratio <= 1.05:
		item.Status = StatusGood
	case ratio >= 0.90 && ratio <= 1.10:
		item.Status, item.Substatus = StatusWarning, sub
	default:
		item.Status, item.Substatus = StatusError, sub
	}
	return finish(item)
}

func gradeSpokenRatio(spoken, total float64) ChecklistItem {
	item := ChecklistItem{Key: "spoken_ratio", Label: "Spoken-time ratio"}
	if total <= 0 {
		item.Status = StatusNotApplicable
		return finish(item)
	}
	ratio := spoken / total
	item.Values = map[string]float64{"ratio": round3(ratio)}
	switch {
	case ratio >= 0.70 && ratio <= 0.90:
		item.Status = StatusGood
	case ratio >= 0.60 && ratio < 0.70:
		item.Status, item.Substatus = StatusWarning, "too_little_speech"
	case ratio > 0.90 && ratio <= 0.95:
		item.Status, item.Substatus = StatusWarning, "no_breathing_room"
	case ratio < 0.60:
		item.Status, item.Substatus = StatusError, "too_little_speech"
	default:
		item.Status, item.Substatus = StatusError, "no_breathing_room"
	}
	return finish(item)
}

// gradeLoudness grades the speech level. Clipping trumps everything; then
// the RMS level is tiered. The (−14, −12] band between "good" and
// "too loud" grades warning.
func gradeLoudness(q MicQuality) ChecklistItem {
	item := ChecklistItem{Key: "mic_loudness", Label: "Microphone level"}
	if q.SpeechRMSdBFS == nil {
		item.Status = StatusNotApplicable
		return finish(item)
	}

	item.Values = map[string]float64{"rms_dbfs": *q.SpeechRMSdBFS}
	if q.SpeechPeakdBFS != nil {
		item.Values["peak_dbfs"] = *q.SpeechPeakdBFS
	}
	if q.ClippingRatio != nil {
		item.Values["clipping_ratio"] = *q.ClippingRatio
	}

	clipping := (q.ClippingRatio != nil && *q.ClippingRatio >= 0.005) ||
		(q.SpeechPeakdBFS != nil && *q.SpeechPeakdBFS > -1)
	rms := *q.SpeechRMSdBFS
	switch {
	case clipping:
		item.Status, item.Substatus = StatusError, "clipping"
	case rms > -12:
		item.Status, item.Substatus = StatusWarning, "too_loud"
	case rms > -14:
		item.Status, item.Substatus = StatusWarning, "slightly_loud"
	case rms >= -23:
		item.Status = StatusGood
	case rms >= -28:
		item.Status, item.Substatus = StatusWarning, "slightly_quiet"
	default:
		item.Status, item.Substatus = StatusError, "too_quiet"
	}
	return finish(item)
}

func gradeNoise(snr *float64) ChecklistItem {
	item := ChecklistItem{Key: "mic_noise", Label: "Background noise"}
	if snr == nil {
		item.Status = StatusNotApplicable
		return finish(item)
	}
	item.Values = map[string]float64{"snr_db": *snr}
	switch {
	case *snr >= 20:
		item.Status = StatusGood
	case *snr >= 12:
		item.Status = StatusWarning
	default:
		item.Status = StatusError
	}
	return finish(item)
}
