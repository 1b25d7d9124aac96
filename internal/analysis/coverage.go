package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/antzucaro/matchr"

	"github.com/oratorlab/cadence/pkg/provider/embeddings"
)

// CoverageMatch records a script unit that was found in the delivered
// speech: its best-matching spoken segment and both similarity views.
// Lexical is a Jaro-Winkler score over the raw strings, recorded as a
// diagnostic next to the cosine similarity that made the decision.
type CoverageMatch struct {
	UnitIndex    int     `json:"unit_idx"`
	Unit         string  `json:"unit"`
	SegmentIndex int     `json:"seg_idx"`
	Segment      string  `json:"seg"`
	Similarity   float64 `json:"similarity"`
	Lexical      float64 `json:"lexical_similarity"`
}

// CoverageMiss records a script unit whose best similarity stayed below the
// applicable threshold.
type CoverageMiss struct {
	UnitIndex      int     `json:"unit_idx"`
	Unit           string  `json:"unit"`
	BestSimilarity float64 `json:"max_similarity"`
}

// CoverageResult is the script-alignment section of the report. Matches and
// Missing partition all script units exactly once; Coverage is the matched
// percentage rounded to one decimal.
type CoverageResult struct {
	Coverage float64         `json:"coverage"`
	Matches  []CoverageMatch `json:"matches"`
	Missing  []CoverageMiss  `json:"missing"`
}

// CoverageOptions tunes the dynamic threshold. Units of at most
// ShortUnitTokens tokens use ShortUnitThreshold instead of Threshold, so
// short stock phrases ("Спасибо за внимание!") are not penalised for weak
// embeddings.
type CoverageOptions struct {
	Threshold          float64
	ShortUnitTokens    int
	ShortUnitThreshold float64
}

// AnalyzeCoverage embeds all script units and grouped segment texts, builds
// the full unit×segment cosine-similarity matrix, and classifies each unit
// by its best-matching segment against the per-unit threshold.
//
// Returns (nil, nil) when there is nothing to compare — no units or no
// segment texts — so the caller renders coverage as not-applicable rather
// than zero.
func AnalyzeCoverage(ctx context.Context, embedder embeddings.Provider, units []ScriptUnit, segTexts []string, opts CoverageOptions) (*CoverageResult, error) {
	if len(units) == 0 || len(segTexts) == 0 || embedder == nil {
		return nil, nil
	}

	unitTexts := make([]string, len(units))
	for i, u := range units {
		unitTexts[i] = u.Text
	}

	unitVecs, err := embedder.EmbedBatch(ctx, unitTexts)
	if err != nil {
		return nil, fmt.Errorf("coverage: embed script units: %w", err)
	}
	segVecs, err := embedder.EmbedBatch(ctx, segTexts)
	if err != nil {
		return nil, fmt.Errorf("coverage: embed segments: %w", err)
	}
	for i := range unitVecs {
		normalize(unitVecs[i])
	}
	for i := range segVecs {
		normalize(segVecs[i])
	}

	res := &CoverageResult{Matches: []CoverageMatch{}, Missing: []CoverageMiss{}}
	for i, unit := range units {
		bestSeg, bestScore := -1, math.Inf(-1)
		for j := range segVecs {
			if score := dot(unitVecs[i], segVecs[j]); score > bestScore {
				bestSeg, bestScore = j, score
			}
		}

		threshold := opts.Threshold
		if CountWords(unit.Text) <= opts.ShortUnitTokens {
			threshold = opts.ShortUnitThreshold
		}

		if bestSeg >= 0 && bestScore >= threshold {
			res.Matches = append(res.Matches, CoverageMatch{
				UnitIndex:    unit.Index,
				Unit:         unit.Text,
				SegmentIndex: bestSeg,
				Segment:      segTexts[bestSeg],
				Similarity:   round3(bestScore),
				Lexical:      round3(matchr.JaroWinkler(unit.Text, segTexts[bestSeg], false)),
			})
		} else {
			res.Missing = append(res.Missing, CoverageMiss{
				UnitIndex:      unit.Index,
				Unit:           unit.Text,
				BestSimilarity: round3(bestScore),
			})
		}
	}

	res.Coverage = round1(100 * float64(len(res.Matches)) / float64(len(units)))
	return res, nil
}

// normalize scales vec to unit length in place. A zero vector is left as is.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}

// dot returns the dot product of two vectors; with both normalized this is
// the cosine similarity. Mismatched lengths score zero.
func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
