package agreement

import (
	"math"
	"testing"

	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

func TestMASISimilarity(t *testing.T) {
	ab := TacticSet{tactic.Gaslighting: true, tactic.Negging: true}
	a := TacticSet{tactic.Gaslighting: true}
	b := TacticSet{tactic.Negging: true}
	abc := TacticSet{tactic.Gaslighting: true, tactic.Negging: true, tactic.General: true}
	bc := TacticSet{tactic.Negging: true, tactic.General: true}

	tests := []struct {
		name string
		x, y TacticSet
		want float64
	}{
		{"both empty is perfect agreement", TacticSet{}, TacticSet{}, 1.0},
		{"identical", ab, ab, 1.0},
		{"disjoint non-empty", a, b, 0.0},
		{"strict subset", a, ab, (1.0 / 2.0) * (2.0 / 3.0)},
		{"overlap without containment", ab, bc, (1.0 / 3.0) * (1.0 / 3.0)},
		{"empty vs non-empty", TacticSet{}, a, 0.0},
		{"subset of three", ab, abc, (2.0 / 3.0) * (2.0 / 3.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MASISimilarity(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MASISimilarity = %v, want %v", got, tt.want)
			}
			// Symmetry holds for every pair.
			if rev := MASISimilarity(tt.y, tt.x); math.Abs(rev-got) > 1e-12 {
				t.Errorf("MASISimilarity is asymmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestEncodeDecodeSet(t *testing.T) {
	tests := []struct {
		name string
		set  TacticSet
		want string
	}{
		{"empty", TacticSet{}, ""},
		{"single", TacticSet{tactic.Negging: true}, "negging"},
		{"sorted join", TacticSet{tactic.Negging: true, tactic.Gaslighting: true}, "gaslighting+negging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeSet(tt.set)
			if got != tt.want {
				t.Errorf("EncodeSet = %q, want %q", got, tt.want)
			}
			back := DecodeSet(got)
			if len(back) != len(tt.set) {
				t.Errorf("DecodeSet(%q) has %d tactics, want %d", got, len(back), len(tt.set))
			}
			for tc := range tt.set {
				if !back[tc] {
					t.Errorf("DecodeSet(%q) lost %q", got, tc)
				}
			}
		})
	}
}

func TestMASIDistanceComplementsSimilarity(t *testing.T) {
	a := EncodeSet(TacticSet{tactic.Gaslighting: true})
	b := EncodeSet(TacticSet{tactic.Gaslighting: true, tactic.Negging: true})

	want := 1 - (1.0/2.0)*(2.0/3.0)
	if got := MASIDistance(a, b); math.Abs(got-want) > 1e-12 {
		t.Errorf("MASIDistance = %v, want %v", got, want)
	}
	if got := MASIDistance("", ""); got != 0 {
		t.Errorf("MASIDistance of two empty sets = %v, want 0", got)
	}
}

// binaryRecord builds one binary annotation record.
func binaryRecord(rater, conv string, tc tactic.Tactic, label string) AnnotationRecord {
	return AnnotationRecord{
		Rater: rater,
		Key:   ItemKey{ConversationID: conv, Tactic: tc},
		Value: label,
	}
}

func TestEndorsedSets(t *testing.T) {
	records := []AnnotationRecord{
		binaryRecord("a", "c1", tactic.Gaslighting, "1"),
		binaryRecord("a", "c1", tactic.Negging, "0"),
		binaryRecord("b", "c1", tactic.Gaslighting, "0"),
		binaryRecord("b", "c1", tactic.Negging, "0"),
	}

	sets := EndorsedSets(records)
	if len(sets["c1"]) != 2 {
		t.Fatalf("conversation c1 has %d raters, want 2", len(sets["c1"]))
	}
	if !sets["c1"]["a"][tactic.Gaslighting] || len(sets["c1"]["a"]) != 1 {
		t.Errorf("rater a endorsed %v, want {gaslighting}", sets["c1"]["a"])
	}
	// All-zero raters are present with an empty set, distinct from absent.
	if got, ok := sets["c1"]["b"]; !ok || len(got) != 0 {
		t.Errorf("rater b = %v (present=%v), want empty set present", got, ok)
	}
}

func TestMeanPairwiseMASI(t *testing.T) {
	// c1: both raters endorse nothing -> 1.0.
	// c2: disjoint singletons -> 0.0.
	// c3: only one rater -> excluded.
	records := []AnnotationRecord{
		binaryRecord("a", "c1", tactic.Gaslighting, "0"),
		binaryRecord("b", "c1", tactic.Gaslighting, "0"),
		binaryRecord("a", "c2", tactic.Gaslighting, "1"),
		binaryRecord("a", "c2", tactic.Negging, "0"),
		binaryRecord("b", "c2", tactic.Gaslighting, "0"),
		binaryRecord("b", "c2", tactic.Negging, "1"),
		binaryRecord("a", "c3", tactic.Gaslighting, "1"),
	}

	mean, n := MeanPairwiseMASI(EndorsedSets(records))
	if mean == nil {
		t.Fatal("mean MASI is nil")
	}
	if n != 2 {
		t.Errorf("qualifying conversations = %d, want 2 (single-rater c3 excluded)", n)
	}
	if math.Abs(*mean-0.5) > 1e-12 {
		t.Errorf("mean MASI = %v, want 0.5", *mean)
	}
}

func TestMeanPairwiseMASINoData(t *testing.T) {
	mean, n := MeanPairwiseMASI(nil)
	if mean != nil || n != 0 {
		t.Errorf("MeanPairwiseMASI(nil) = %v, %d; want nil, 0", mean, n)
	}

	// Only single-rater conversations.
	single := EndorsedSets([]AnnotationRecord{binaryRecord("a", "c1", tactic.Negging, "1")})
	mean, n = MeanPairwiseMASI(single)
	if mean != nil || n != 0 {
		t.Errorf("single-rater input = %v, %d; want nil, 0", mean, n)
	}
}

func TestPerTacticMASI(t *testing.T) {
	// Rater a endorses gaslighting and negging; rater b endorses only
	// negging. Restricted to negging both sets become {negging}: perfect
	// agreement even though the full sets differ.
	records := []AnnotationRecord{
		binaryRecord("a", "c1", tactic.Gaslighting, "1"),
		binaryRecord("a", "c1", tactic.Negging, "1"),
		binaryRecord("b", "c1", tactic.Gaslighting, "0"),
		binaryRecord("b", "c1", tactic.Negging, "1"),
	}

	mean, n := PerTacticMASI(records, tactic.Negging)
	if mean == nil || n != 1 {
		t.Fatalf("PerTacticMASI = %v, %d; want value, 1", mean, n)
	}
	if *mean != 1.0 {
		t.Errorf("restricted MASI = %v, want 1.0", *mean)
	}

	mean, _ = PerTacticMASI(records, tactic.Gaslighting)
	if mean == nil {
		t.Fatal("restricted MASI is nil for gaslighting")
	}
	if *mean != 0.0 {
		t.Errorf("restricted MASI = %v, want 0.0 for {gaslighting} vs empty", *mean)
	}
}

func TestPerTacticMASISkipsUnratedRaters(t *testing.T) {
	// Rater b never rated negging on c1; the negging restriction must drop
	// b rather than treat the absence as an empty endorsement.
	records := []AnnotationRecord{
		binaryRecord("a", "c1", tactic.Negging, "1"),
		binaryRecord("b", "c1", tactic.Gaslighting, "1"),
	}

	mean, n := PerTacticMASI(records, tactic.Negging)
	if mean != nil || n != 0 {
		t.Errorf("PerTacticMASI = %v, %d; want nil, 0 when only one rater rated the tactic", mean, n)
	}
}
