package agreement

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

func sub(rater, conv string, scores map[tactic.Tactic]int) Submission {
	fields := map[string]interface{}{}
	for t, s := range scores {
		fields[tactic.FieldName(t)] = s
	}
	return Submission{Rater: rater, ConversationID: conv, Fields: fields}
}

// reportFixture is a small survey where gaslighting is doubly rated across
// several conversations, general is rated once per conversation by each
// rater, and negging is never rated by anyone.
func reportFixture() ([]Submission, []ConversationMeta) {
	var subs []Submission
	var convs []ConversationMeta
	for i := 0; i < 4; i++ {
		conv := fmt.Sprintf("conv-%d", i)
		convs = append(convs, ConversationMeta{UUID: conv, PromptedAs: "Gaslighting"})
		subs = append(subs,
			sub("alice", conv, map[tactic.Tactic]int{
				tactic.Gaslighting: 6,
				tactic.General:     6,
			}),
			sub("bob", conv, map[tactic.Tactic]int{
				tactic.Gaslighting: 6,
				tactic.General:     2,
			}),
		)
	}
	return subs, convs
}

func TestRun(t *testing.T) {
	subs, convs := reportFixture()
	report, err := Run(NewConfig(4, false), subs, convs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Binarization.Threshold != 4 || report.Binarization.Inclusive {
		t.Errorf("binarization = %+v, want threshold 4 exclusive", report.Binarization)
	}

	for _, kind := range []CoefficientKind{KindKrippendorff, KindGwetAC1, KindMASI} {
		if _, ok := report.Coefficients[kind][ScopeOverall]; !ok {
			t.Errorf("missing overall scope for %s", kind)
		}
		for _, tac := range tactic.All() {
			if _, ok := report.Coefficients[kind][string(tac)]; !ok {
				t.Errorf("missing %s scope for %s", tac, kind)
			}
			if _, ok := report.Coefficients[kind][PromptedScope(tac)]; !ok {
				t.Errorf("missing %s scope for %s", PromptedScope(tac), kind)
			}
		}
	}

	// Gaslighting is unanimously "1" everywhere: AC1 must be 1.0 there.
	gas := report.Coefficients[KindGwetAC1][string(tactic.Gaslighting)]
	if gas.Value == nil || *gas.Value != 1.0 || gas.SampleSize != 4 {
		t.Errorf("gaslighting AC1 = %+v, want 1.0 over 4 items", gas)
	}

	if len(report.Annotators) != 2 {
		t.Errorf("annotators = %+v, want alice and bob", report.Annotators)
	}
	if len(report.Bands) == 0 {
		t.Error("report carries no interpretation bands")
	}
}

func TestRunUnratedTacticIsNullNotError(t *testing.T) {
	subs, convs := reportFixture()
	report, err := Run(NewConfig(4, false), subs, convs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Nobody rated negging: its entries exist with nil values and zero
	// sample size, while the rated tactics stay populated.
	for _, kind := range []CoefficientKind{KindKrippendorff, KindGwetAC1, KindMASI} {
		res, ok := report.Coefficients[kind][string(tactic.Negging)]
		if !ok {
			t.Fatalf("negging scope absent for %s", kind)
		}
		if res.Value != nil || res.SampleSize != 0 {
			t.Errorf("%s negging = %+v, want nil value and sample size 0", kind, res)
		}
	}
	overall := report.Coefficients[KindKrippendorff][ScopeOverall]
	if overall.SampleSize == 0 {
		t.Error("overall scope lost its data alongside the empty tactic")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	subs, convs := reportFixture()
	cfg := NewConfig(4, false)

	first, err := Run(cfg, subs, convs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := Run(cfg, subs, convs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated runs differ (-first +second):\n%s", diff)
	}
}

func TestRunRejectsIncompleteConfig(t *testing.T) {
	subs, convs := reportFixture()

	if _, err := Run(Config{}, subs, convs); !errors.Is(err, ErrNoThreshold) {
		t.Errorf("Run with empty config = %v, want ErrNoThreshold", err)
	}

	threshold := 4
	if _, err := Run(Config{Threshold: &threshold}, subs, convs); !errors.Is(err, ErrNoInclusivity) {
		t.Errorf("Run without inclusivity = %v, want ErrNoInclusivity", err)
	}
}

func TestRunCountsExclusions(t *testing.T) {
	subs, convs := reportFixture()
	// A conversation rated by a single annotator only: both its groups are
	// excluded and so is the conversation itself.
	subs = append(subs, sub("carol", "conv-solo", map[tactic.Tactic]int{
		tactic.Gaslighting: 5,
		tactic.General:     5,
	}))
	convs = append(convs, ConversationMeta{UUID: "conv-solo", PromptedAs: "Gaslighting"})

	report, err := Run(NewConfig(4, false), subs, convs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Excluded.Groups != 2 {
		t.Errorf("Excluded.Groups = %d, want 2", report.Excluded.Groups)
	}
	if report.Excluded.Conversations != 1 {
		t.Errorf("Excluded.Conversations = %d, want 1", report.Excluded.Conversations)
	}
}

func TestInterpretAlpha(t *testing.T) {
	tests := []struct {
		alpha float64
		want  string
	}{
		{1.0, "perfect"},
		{0.85, "good"},
		{0.7, "tentative"},
		{0.3, "poor"},
		{-0.2, "worse than chance"},
	}
	for _, tt := range tests {
		if got := InterpretAlpha(tt.alpha); got != tt.want {
			t.Errorf("InterpretAlpha(%v) = %q, want %q", tt.alpha, got, tt.want)
		}
	}
}
