package analysis

// statusWeight maps a graded status to its contribution to a group score.
// Not-applicable items carry no weight and are excluded from the average.
func statusWeight(s Status) (float64, bool) {
	switch s {
	case StatusGood:
		return 1.0, true
	case StatusWarning:
		return 0.75, true
	case StatusError:
		return 0.40, true
	}
	return 0, false
}

// groupLayout fixes which checklist keys roll up into which named group.
var groupLayout = []struct {
	name string
	keys []string
}{
	{"delivery", []string{"pace", "pauses", "spoken_ratio", "timing"}},
	{"language", []string{"fillers", "hedges"}},
	{"content", []string{"coverage"}},
	{"recording", []string{"mic_loudness", "mic_noise"}},
}

// GroupScore is one named rollup of checklist items, scored 0–100.
type GroupScore struct {
	Name  string          `json:"name"`
	Score *float64        `json:"score"`
	Items []ChecklistItem `json:"items"`
}

// Presentation is the summary view of a report: grouped scores plus
// counted-status feedback. It is derived from the checklist alone and
// never re-measures anything.
type Presentation struct {
	Tone      string       `json:"tone"`
	Summary   string       `json:"summary"`
	Groups    []GroupScore `json:"groups"`
	Strengths []string     `json:"strengths"`
	Areas     []string     `json:"areas_for_improvement"`
}

// Present regroups the checklist into the fixed layout and derives the
// feedback tone from status counts: more than two errors reads critical,
// more than three warnings reads moderate, anything else positive.
func Present(checklist []ChecklistItem) Presentation {
	byKey := make(map[string]ChecklistItem, len(checklist))
	for _, item := range checklist {
		byKey[item.Key] = item
	}

	p := Presentation{Strengths: []string{}, Areas: []string{}}
	var errors, warnings int
	for _, item := range checklist {
		switch item.Status {
		case StatusError:
			errors++
			p.Areas = append(p.Areas, item.Label)
		case StatusWarning:
			warnings++
			p.Areas = append(p.Areas, item.Label)
		case StatusGood:
			p.Strengths = append(p.Strengths, item.Label)
		}
	}

	for _, g := range groupLayout {
		group := GroupScore{Name: g.name, Items: []ChecklistItem{}}
		var sum float64
		var counted int
		for _, key := range g.keys {
			item, ok := byKey[key]
			if !ok {
				continue
			}
			group.Items = append(group.Items, item)
			if w, scored := statusWeight(item.Status); scored {
				sum += w
				counted++
			}
		}
		if counted > 0 {
			score := round1(100 * sum / float64(counted))
			group.Score = &score
		}
		p.Groups = append(p.Groups, group)
	}

	switch {
	case errors > 2:
		p.Tone = "critical"
		p.Summary = "Several parts of the delivery need work before this talk is ready. Start with the flagged errors."
	case warnings > 3:
		p.Tone = "moderate"
		p.Summary = "A solid base with a handful of rough edges. A focused rehearsal pass will tighten it up."
	default:
		p.Tone = "positive"
		p.Summary = "A confident delivery. Review the minor notes below and keep rehearsing at this level."
	}
	return p
}
