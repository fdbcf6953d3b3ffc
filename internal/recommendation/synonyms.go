package recommendation

import "strings"

// defaultSynonyms maps a requested service category to the keywords accepted as
// equivalent in supplier-entered offering categories. Pure configuration: the
// matcher only does case-insensitive substring checks against these entries.
var defaultSynonyms = map[string][]string{
	"decoration":   {"decoration", "decor", "deco"},
	"sonorisation": {"sonorisation", "sound", "audio", "sono"},
	"catering":     {"catering", "traiteur", "food"},
	"photography":  {"photography", "photo", "photographe"},
	"venue":        {"venue", "salle", "hall"},
	"lighting":     {"lighting", "eclairage", "lights"},
	"furniture":    {"furniture", "mobilier", "chairs", "tables"},
	"transport":    {"transport", "shuttle", "navette"},
	"security":     {"security", "securite", "guard"},
}

// CategoryMatcher resolves supplier-entered offering categories against the
// service categories a brief requests.
type CategoryMatcher struct {
	synonyms map[string][]string
}

// NewCategoryMatcher builds a matcher; overrides replaces the default synonym
// table entirely when non-nil.
func NewCategoryMatcher(overrides map[string][]string) *CategoryMatcher {
	synonyms := defaultSynonyms
	if overrides != nil {
		synonyms = overrides
	}
	return &CategoryMatcher{synonyms: synonyms}
}

// Match reports whether an offering category satisfies the needed category.
// The needed category itself always counts as a keyword, so categories absent
// from the synonym table still match on their own name.
func (m *CategoryMatcher) Match(offeringCategory, neededCategory string) bool {
	offering := strings.ToLower(strings.TrimSpace(offeringCategory))
	needed := strings.ToLower(strings.TrimSpace(neededCategory))
	if offering == "" || needed == "" {
		return false
	}
	if strings.Contains(offering, needed) {
		return true
	}
	for _, keyword := range m.synonyms[needed] {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(offering, keyword) {
			return true
		}
	}
	return false
}
