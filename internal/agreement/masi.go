package agreement

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// TacticSet is a rater's endorsed-tactic set for one conversation: the
// tactics whose binary label came out 1.
type TacticSet map[tactic.Tactic]bool

// MASISimilarity returns the MASI similarity of two endorsed sets:
// jaccard(A,B) * M(A,B), where M is 1 for identical sets, 2/3 when one is a
// strict subset of the other, 1/3 when they overlap without containment,
// and 0 when disjoint. Two empty sets are perfect agreement (1.0) by
// convention; that special case is load-bearing because most conversations
// are endorsed for no tactic at all.
func MASISimilarity(a, b TacticSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	var intersection, union int
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union = len(a) + len(b) - intersection
	jaccard := float64(intersection) / float64(union)

	var m float64
	switch {
	case intersection == len(a) && intersection == len(b):
		m = 1.0
	case intersection == len(a) || intersection == len(b):
		m = 2.0 / 3.0
	case intersection > 0:
		m = 1.0 / 3.0
	default:
		m = 0
	}

	return jaccard * m
}

// EncodeSet renders a tactic set as a canonical label (sorted tactic names
// joined by "+", empty string for the empty set), so set-valued judgments
// can flow through the label-based calculators.
func EncodeSet(s TacticSet) string {
	names := make([]string, 0, len(s))
	for t := range s {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return strings.Join(names, "+")
}

// DecodeSet parses a label produced by EncodeSet.
func DecodeSet(label string) TacticSet {
	s := TacticSet{}
	if label == "" {
		return s
	}
	for _, name := range strings.Split(label, "+") {
		s[tactic.Tactic(name)] = true
	}
	return s
}

// MASIDistance adapts MASI similarity to the DistanceFunc shape so the
// Krippendorff calculator can run with a set-based metric. Labels must be
// EncodeSet encodings.
func MASIDistance(a, b string) float64 {
	return 1 - MASISimilarity(DecodeSet(a), DecodeSet(b))
}

// EndorsedSets builds each rater's endorsed-tactic set per conversation from
// binary annotation records. A rater who rated a conversation but endorsed
// nothing is present with an empty set; raters who never rated the
// conversation are absent, which is a different thing.
func EndorsedSets(binary []AnnotationRecord) map[string]map[string]TacticSet {
	sets := map[string]map[string]TacticSet{}
	for _, rec := range binary {
		conv := rec.Key.ConversationID
		if sets[conv] == nil {
			sets[conv] = map[string]TacticSet{}
		}
		if sets[conv][rec.Rater] == nil {
			sets[conv][rec.Rater] = TacticSet{}
		}
		if rec.Value == "1" {
			sets[conv][rec.Rater][rec.Key.Tactic] = true
		}
	}
	return sets
}

// restrictSets reduces every rater's set to its intersection with {t},
// degenerating set agreement to binary agreement on one tactic while
// keeping the MASI machinery identical. Raters without a rating for t on a
// conversation are dropped for that conversation.
func restrictSets(sets map[string]map[string]TacticSet, t tactic.Tactic, rated map[string]map[string]bool) map[string]map[string]TacticSet {
	out := map[string]map[string]TacticSet{}
	for conv, raters := range sets {
		for rater, s := range raters {
			if !rated[conv][rater] {
				continue
			}
			restricted := TacticSet{}
			if s[t] {
				restricted[t] = true
			}
			if out[conv] == nil {
				out[conv] = map[string]TacticSet{}
			}
			out[conv][rater] = restricted
		}
	}
	return out
}

// MeanPairwiseMASI averages MASI similarity over all rater pairs of every
// conversation with at least two raters. Returns nil and a zero sample size
// when no conversation qualifies; otherwise the mean and the number of
// qualifying conversations. Pairs are enumerated over sorted rater ids.
func MeanPairwiseMASI(sets map[string]map[string]TacticSet) (*float64, int) {
	convs := make([]string, 0, len(sets))
	for c := range sets {
		convs = append(convs, c)
	}
	sort.Strings(convs)

	var scores []float64
	qualifying := 0
	for _, conv := range convs {
		raters := make([]string, 0, len(sets[conv]))
		for r := range sets[conv] {
			raters = append(raters, r)
		}
		if len(raters) < 2 {
			continue
		}
		sort.Strings(raters)
		qualifying++
		for i := 0; i < len(raters); i++ {
			for j := i + 1; j < len(raters); j++ {
				scores = append(scores, MASISimilarity(sets[conv][raters[i]], sets[conv][raters[j]]))
			}
		}
	}

	if len(scores) == 0 {
		return nil, 0
	}
	mean := stat.Mean(scores, nil)
	return &mean, qualifying
}

// PerTacticMASI computes the singleton-restricted MASI mean for one tactic.
// The restriction considers only raters who actually rated that tactic on a
// conversation, so absence stays distinct from an empty endorsement.
func PerTacticMASI(binary []AnnotationRecord, t tactic.Tactic) (*float64, int) {
	sets := EndorsedSets(binary)
	rated := map[string]map[string]bool{}
	for _, rec := range binary {
		if rec.Key.Tactic != t {
			continue
		}
		conv := rec.Key.ConversationID
		if rated[conv] == nil {
			rated[conv] = map[string]bool{}
		}
		rated[conv][rec.Rater] = true
	}
	return MeanPairwiseMASI(restrictSets(sets, t, rated))
}
