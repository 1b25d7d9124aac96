package analysis

import "regexp"

// TranscribedWord is one word of the transcription with its position in the
// recording, in seconds. Words are ordered by Start.
type TranscribedWord struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// wordRe matches one token: a run of Cyrillic/Latin letters and digits,
// optionally joined by a single internal hyphen or apostrophe
// ("по-моему", "don't").
var wordRe = regexp.MustCompile(`[A-Za-zА-Яа-яЁё0-9]+(?:[-'][A-Za-zА-Яа-яЁё0-9]+)?`)

// CountWords returns the number of tokens in s.
func CountWords(s string) int {
	return len(wordRe.FindAllString(s, -1))
}

// Tokens returns the tokens of s in order.
func Tokens(s string) []string {
	return wordRe.FindAllString(s, -1)
}
