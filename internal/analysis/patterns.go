package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// PatternOccurrence is one filler/hedge hit back-projected onto the
// recording timeline. Start and End always come from real word timestamps,
// never interpolated.
type PatternOccurrence struct {
	Pattern string  `json:"pattern,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// PatternHits aggregates all occurrences of a single catalogue pattern, the
// shape the report exposes per pattern.
type PatternHits struct {
	Pattern     string              `json:"pattern"`
	Count       int                 `json:"count"`
	Occurrences []PatternOccurrence `json:"occurrences"`
}

// Pattern is one compiled catalogue entry. Expressions are written without
// word-boundary anchors; the matcher enforces token boundaries itself, since
// RE2's \b is ASCII-only and useless for Cyrillic.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// MustPattern compiles expr case-insensitively. Panics on a bad expression;
// catalogue entries are compile-time constants.
func MustPattern(expr string) Pattern {
	return Pattern{expr: expr, re: regexp.MustCompile(`(?i)(?:` + expr + `)`)}
}

// Expr returns the original catalogue expression.
func (p Pattern) Expr() string { return p.expr }

// normalizeToken lowercases a word and strips every rune that is not a
// letter, digit, or hyphen. An empty result drops the word from matching
// (its timestamps are skipped too, keeping offsets aligned).
func normalizeToken(word string) string {
	lower := strings.ToLower(word)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return -1
	}, lower)
}

// projection is the joined normalized text plus the offset table mapping a
// character position back to the originating word index.
type projection struct {
	joined  string
	offsets []int // starting character offset of each kept token, ascending
	wordIdx []int // kept-token index -> index into the original word slice
}

func project(words []TranscribedWord) projection {
	var (
		b       strings.Builder
		offsets []int
		wordIdx []int
	)
	for i, w := range words {
		tok := normalizeToken(w.Text)
		if tok == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		offsets = append(offsets, b.Len())
		wordIdx = append(wordIdx, i)
		b.WriteString(tok)
	}
	return projection{joined: b.String(), offsets: offsets, wordIdx: wordIdx}
}

// wordAt maps a character position in the joined string to a word index via
// a floor lookup: the last token whose offset is ≤ pos.
func (p projection) wordAt(pos int) int {
	i := sort.SearchInts(p.offsets, pos+1) - 1
	if i < 0 {
		i = 0
	}
	return p.wordIdx[i]
}

// FindPatterns scans the normalized joined transcription for every catalogue
// pattern and back-projects each non-overlapping, token-aligned match onto
// word timestamps. Patterns with zero hits are omitted. The second return is
// the total occurrence count. An empty word list yields (nil, 0).
func FindPatterns(words []TranscribedWord, patterns []Pattern) ([]PatternHits, int) {
	if len(words) == 0 {
		return nil, 0
	}
	proj := project(words)
	if proj.joined == "" {
		return nil, 0
	}

	var (
		results []PatternHits
		total   int
	)
	for _, pat := range patterns {
		var hits []PatternOccurrence
		for _, loc := range pat.re.FindAllStringIndex(proj.joined, -1) {
			if !tokenAligned(proj.joined, loc[0], loc[1]) {
				continue
			}
			startIdx := proj.wordAt(loc[0])
			endIdx := proj.wordAt(loc[1] - 1)
			if endIdx >= len(words) {
				endIdx = len(words) - 1
			}
			hits = append(hits, PatternOccurrence{
				Pattern: pat.Expr(),
				Start:   round3(words[startIdx].Start),
				End:     round3(words[endIdx].End),
				Text:    proj.joined[loc[0]:loc[1]],
			})
		}
		if len(hits) > 0 {
			results = append(results, PatternHits{
				Pattern:     pat.Expr(),
				Count:       len(hits),
				Occurrences: hits,
			})
			total += len(hits)
		}
	}
	return results, total
}

// Flatten expands per-pattern hit groups into a single chronological
// occurrence list.
func Flatten(hits []PatternHits) []PatternOccurrence {
	var out []PatternOccurrence
	for _, h := range hits {
		out = append(out, h.Occurrences...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// tokenAligned reports whether joined[start:end) begins and ends on token
// boundaries of the space-joined normalized text. A hyphen counts as a
// boundary too, so a filler inside a hyphenated compound ("вот-вот") still
// matches while a substring of a plain word ("поворот") does not.
func tokenAligned(joined string, start, end int) bool {
	if start > 0 && !isBoundary(joined[start-1]) {
		return false
	}
	if end < len(joined) && !isBoundary(joined[end]) {
		return false
	}
	return end > start
}

func isBoundary(b byte) bool { return b == ' ' || b == '-' }
