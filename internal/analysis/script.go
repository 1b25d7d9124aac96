package analysis

import (
	"regexp"
	"strings"
)

// ScriptUnit is one sentence/clause-scale chunk of the reference script,
// indexed in script order.
type ScriptUnit struct {
	Index int    `json:"unit_idx"`
	Text  string `json:"unit"`
}

// unitDelimRe splits the script on sentence and clause boundaries: line
// breaks, bullet markers, dashes, semicolons, and periods, each followed by
// whitespace or end of input.
var unitDelimRe = regexp.MustCompile(`(?:[\n\r]+|•|- |—|–|;|\.)(?:\s+|$)`)

// SplitScriptUnits breaks the reference text into units and discards
// fragments with fewer than minTokens tokens. An empty script yields an
// empty slice, which short-circuits coverage to not-applicable downstream.
func SplitScriptUnits(text string, minTokens int) []ScriptUnit {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var units []ScriptUnit
	for _, raw := range unitDelimRe.Split(text, -1) {
		u := strings.TrimSpace(raw)
		if u == "" || CountWords(u) < minTokens {
			continue
		}
		units = append(units, ScriptUnit{Index: len(units), Text: u})
	}
	return units
}
