package analysis

// Catalog holds the filler and hedge expressions for one language.
// Filler: disfluency stock phrase ("эм", "um"). Hedge: epistemic-uncertainty
// phrase ("мне кажется", "I think").
type Catalog struct {
	Fillers []Pattern
	Hedges  []Pattern
}

// CatalogFor returns the catalogue for a language code ("ru", "en"). Unknown
// languages get an empty catalogue: the matcher then reports zero hits, it
// never fails.
func CatalogFor(language string) Catalog {
	switch language {
	case "ru":
		return russianCatalog
	case "en":
		return englishCatalog
	default:
		return Catalog{}
	}
}

// Expressions are matched against the normalized transcript (lowercased,
// punctuation stripped, single-space joined) and then projected back onto
// word timecodes. Token boundaries are enforced by the matcher, so no \b
// anchors here.
var russianCatalog = Catalog{
	Fillers: []Pattern{
		MustPattern(`э+м?`),
		MustPattern(`эм+`),
		MustPattern(`м-?м`),
		MustPattern(`ну`),
		MustPattern(`вот`),
		MustPattern(`как бы`),
		MustPattern(`типа`),
		MustPattern(`короче`),
		MustPattern(`значит`),
		MustPattern(`в общем`),
		MustPattern(`по сути`),
		MustPattern(`так сказать`),
		MustPattern(`собственно`),
		MustPattern(`получается`),
	},
	Hedges: []Pattern{
		MustPattern(`мне кажется`),
		MustPattern(`кажется`),
		MustPattern(`я думаю`),
		MustPattern(`возможно`),
		MustPattern(`скорее всего`),
		MustPattern(`наверное`),
		MustPattern(`по-моему`),
		MustPattern(`может быть`),
		MustPattern(`я не уверен[ао]?`),
		MustPattern(`затрудняюсь`),
		MustPattern(`полагаю`),
		MustPattern(`вроде`),
	},
}

var englishCatalog = Catalog{
	Fillers: []Pattern{
		MustPattern(`u+m+`),
		MustPattern(`u+h+`),
		MustPattern(`er+m?`),
		MustPattern(`like`),
		MustPattern(`you know`),
		MustPattern(`basically`),
		MustPattern(`actually`),
		MustPattern(`so yeah`),
		MustPattern(`i mean`),
		MustPattern(`kind of`),
		MustPattern(`sort of`),
	},
	Hedges: []Pattern{
		MustPattern(`i think`),
		MustPattern(`i guess`),
		MustPattern(`i suppose`),
		MustPattern(`maybe`),
		MustPattern(`perhaps`),
		MustPattern(`probably`),
		MustPattern(`it seems`),
		MustPattern(`i'?m not sure`),
		MustPattern(`i believe`),
	},
}
