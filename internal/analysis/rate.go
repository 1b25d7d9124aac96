package analysis

import "math"

// Rates computes words-per-minute over the spoken time and over the overall
// time, rounded to one decimal. A zero or negative denominator yields a zero
// rate, never a division error.
func Rates(wordCount int, spokenTime, overallTime float64) (spokenWPM, overallWPM float64) {
	if spokenTime > 0 {
		spokenWPM = round1(float64(wordCount) / spokenTime * 60)
	}
	if overallTime > 0 {
		overallWPM = round1(float64(wordCount) / overallTime * 60)
	}
	return spokenWPM, overallWPM
}

// SpeechWindow returns the interval from the first word's start to the last
// word's end. With no words the window is zero-length at zero, and the
// timing comparison downstream becomes not-applicable.
func SpeechWindow(words []TranscribedWord) (start, end float64) {
	if len(words) == 0 {
		return 0, 0
	}
	return words[0].Start, words[len(words)-1].End
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
