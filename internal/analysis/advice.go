package analysis

// adviceTable maps a checklist key to its advice strings. The lookup key is
// "status/substatus" first, then bare "status"; every entry is a fixed
// string, so the same measurements always produce the same advice.
var adviceTable = map[string]map[string]string{
	"pace": {
		"good":             "Your pace sits in the comfortable listening range. Keep it up.",
		"warning/too_slow": "You are speaking a touch slowly. Trim pauses inside sentences and lean on your key points.",
		"warning/too_fast": "You are speaking a touch quickly. Breathe at sentence boundaries and let important points land.",
		"error/too_slow":   "The delivery drags well below a comfortable pace. Rehearse with a timer and cut hesitation between phrases.",
		"error/too_fast":   "The delivery races past a comfortable pace. Slow down deliberately, especially on key slides.",
		"not_applicable":   "Speaking pace could not be measured for this recording.",
	},
	"pauses": {
		"good":                      "Pauses are well controlled.",
		"warning/too_frequent":      "Long silences appear a bit often. Decide in advance where you will pause and keep the rest flowing.",
		"warning/too_long":          "One pause ran noticeably long. If you pause for effect, keep it under three seconds.",
		"warning/frequent_and_long": "Pauses are both frequent and long. Rehearse transitions between sections until they come without stalling.",
		"error/too_frequent":        "Frequent long silences break the flow. Script your transitions so you always know the next sentence.",
		"error/too_long":            "A very long silence will lose the audience. Prepare a bridging phrase for moments when you lose the thread.",
		"error/frequent_and_long":   "Long, frequent silences dominate the delivery. Rehearse until each section flows into the next.",
	},
	"fillers": {
		"good":           "Filler words are under control.",
		"warning":        "Filler words creep in now and then. Replace them with a short silent pause.",
		"error":          "Filler words are frequent enough to distract. Record yourself, note your go-to filler, and pause silently instead.",
		"not_applicable": "No transcribed words to check for fillers.",
	},
	"hedges": {
		"good":           "The phrasing sounds confident.",
		"warning":        "Hedging phrases soften your message. State conclusions directly and save caveats for questions.",
		"error":          "Heavy hedging undermines your message. Cut the qualifiers and commit to your statements.",
		"not_applicable": "No transcribed words to check for hedging.",
	},
	"coverage": {
		"good":           "You covered the script thoroughly.",
		"warning":        "Parts of the script went unspoken. Review the missed units and decide whether to cut or rehearse them.",
		"error":          "Large parts of the script were never delivered. Walk through the missed units and rebuild the flow.",
		"not_applicable": "No script was provided, so coverage was not checked.",
	},
	"timing": {
		"good":          "You landed right on the planned duration.",
		"warning/under": "You finished a little early. Expand your strongest section or slow the closing.",
		"warning/over":  "You ran slightly over. Tighten the middle sections where digressions tend to live.",
		"error/under":   "The talk came in well under the plan. Add material or merge this talk into a shorter slot.",
		"error/over":    "The talk ran far over the plan. Cut whole sections rather than rushing everything.",
		"not_applicable": "No planned duration was supplied, so timing was not checked.",
	},
	"spoken_ratio": {
		"good":                      "The balance of speech and silence feels natural.",
		"warning/too_little_speech": "A large share of the recording is silence. Check for dead air at the start, end, or during demos.",
		"warning/no_breathing_room": "There is almost no silence in the recording. Leave brief pauses so the audience can absorb each point.",
		"error/too_little_speech":   "Most of the recording is silence. Trim the dead air or re-record starting when you are ready to speak.",
		"error/no_breathing_room":   "The delivery never stops for air. Insert deliberate pauses after each key point.",
		"not_applicable":            "Spoken-time ratio could not be measured for this recording.",
	},
	"mic_loudness": {
		"good":                   "Microphone level looks healthy.",
		"warning/slightly_quiet": "The recording is on the quiet side. Move closer to the microphone or raise the input gain slightly.",
		"warning/slightly_loud":  "The recording is on the loud side. Back off the microphone a little or reduce the input gain.",
		"warning/too_loud":       "The recording is loud and close to distorting. Reduce the input gain.",
		"error/too_quiet":        "The recording is too quiet; listeners will strain to hear you. Raise the input gain or use a closer microphone.",
		"error/clipping":         "The signal clips. Lower the input gain until peaks stay comfortably below full scale and re-record.",
		"not_applicable":         "Microphone level could not be measured for this recording.",
	},
	"mic_noise": {
		"good":           "Background noise is low.",
		"warning":        "Background noise is audible. Record in a quieter room or move away from fans and traffic.",
		"error":          "Background noise competes with your voice. Find a quieter space or use a directional microphone.",
		"not_applicable": "Background noise could not be measured for this recording.",
	},
}

// targetTable states the target range for each metric in plain words.
var targetTable = map[string]string{
	"pace":         "110–140 words per minute of speech",
	"pauses":       "at most one long pause every two minutes, none over 3 s",
	"fillers":      "at most 1 filler per 100 words",
	"hedges":       "at most 0.5 hedges per 100 words",
	"coverage":     "at least 90% of script units delivered",
	"timing":       "within ±5% of the planned duration",
	"spoken_ratio": "70–90% of the recording spent speaking",
	"mic_loudness": "speech level between −23 and −14 dBFS, no clipping",
	"mic_noise":    "signal-to-noise ratio of at least 20 dB",
}

// adviceFor resolves the advice string for a graded item. The
// status/substatus pair is tried first so that, e.g., "too_fast" and
// "too_slow" warnings read differently.
func adviceFor(key string, status Status, substatus string) string {
	entries, ok := adviceTable[key]
	if !ok {
		return ""
	}
	if substatus != "" {
		if s, ok := entries[string(status)+"/"+substatus]; ok {
			return s
		}
	}
	return entries[string(status)]
}

func targetFor(key string) string {
	return targetTable[key]
}
