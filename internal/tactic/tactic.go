// Package tactic provides the canonical set of manipulation tactics raters
// judge conversations on, plus the mappings between survey field names,
// prompted_as labels, and tactic values.
package tactic

import "strings"

// Tactic is one of the manipulation categories a rater scores a conversation
// on. "general" is overall manipulativeness and has no prompted category.
type Tactic string

const (
	EmotionalBlackmail Tactic = "emotional_blackmail"
	FearEnhancement    Tactic = "fear_enhancement"
	Gaslighting        Tactic = "gaslighting"
	General            Tactic = "general"
	GuiltTripping      Tactic = "guilt_tripping"
	Negging            Tactic = "negging"
	PeerPressure       Tactic = "peer_pressure"
	Reciprocity        Tactic = "reciprocity"
)

// fieldPrefix is the survey-response field prefix for tactic scores
// ("manipulative_gaslighting" etc).
const fieldPrefix = "manipulative_"

// All returns every tactic in canonical (alphabetical) order. Iteration over
// tactics must use this order so repeated runs produce identical reports.
func All() []Tactic {
	return []Tactic{
		EmotionalBlackmail,
		FearEnhancement,
		Gaslighting,
		General,
		GuiltTripping,
		Negging,
		PeerPressure,
		Reciprocity,
	}
}

// IsValid checks whether t is one of the known tactics.
func IsValid(t Tactic) bool {
	for _, v := range All() {
		if t == v {
			return true
		}
	}
	return false
}

// FieldName returns the survey-response field that carries the score for t.
func FieldName(t Tactic) string {
	return fieldPrefix + string(t)
}

// FromField maps a survey-response field name back to its tactic. Returns
// false for fields that do not carry a tactic score (username, uuid, ...).
func FromField(field string) (Tactic, bool) {
	if !strings.HasPrefix(field, fieldPrefix) {
		return "", false
	}
	t := Tactic(strings.TrimPrefix(field, fieldPrefix))
	if !IsValid(t) {
		return "", false
	}
	return t, true
}

// promptedAliases maps the prompted_as labels seen in conversation metadata
// to tactics. Conversation generation used several spellings for the same
// category over time, so all of them are accepted.
var promptedAliases = map[string]Tactic{
	"emotional_blackmail":              EmotionalBlackmail,
	"Emotional Blackmail":              EmotionalBlackmail,
	"manipulative_emotional_blackmail": EmotionalBlackmail,
	"fear_enhancement":                 FearEnhancement,
	"Fear Enhancement":                 FearEnhancement,
	"manipulative_fear_enhancement":    FearEnhancement,
	"gaslighting":                      Gaslighting,
	"Gaslighting":                      Gaslighting,
	"manipulative_gaslighting":         Gaslighting,
	"guilt_tripping":                   GuiltTripping,
	"Guilt-Tripping":                   GuiltTripping,
	"manipulative_guilt_tripping":      GuiltTripping,
	"negging":                          Negging,
	"Negging":                          Negging,
	"manipulative_negging":             Negging,
	"peer_pressure":                    PeerPressure,
	"Peer Pressure":                    PeerPressure,
	"manipulative_peer_pressure":       PeerPressure,
	"reciprocity":                      Reciprocity,
	"Reciprocity Pressure":             Reciprocity,
	"manipulative_reciprocity":         Reciprocity,
}

// FromPromptedAs maps a conversation's prompted_as label to a tactic.
// Returns false for unknown labels and for empty/null prompted_as. "general"
// is never a prompted category.
func FromPromptedAs(label string) (Tactic, bool) {
	t, ok := promptedAliases[label]
	return t, ok
}
