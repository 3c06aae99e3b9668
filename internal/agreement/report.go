package agreement

import (
	"fmt"

	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// CoefficientKind names one of the agreement coefficient families.
type CoefficientKind string

const (
	KindKrippendorff CoefficientKind = "krippendorff"
	KindGwetAC1      CoefficientKind = "gwet_ac1"
	KindMASI         CoefficientKind = "masi"
)

// Scope names. Per-tactic scopes use the tactic name itself; prompted
// scopes are prefixed so the two slicings cannot collide.
const (
	ScopeOverall        = "overall"
	promptedScopePrefix = "prompted_"
)

// PromptedScope returns the scope name for a prompted-category slice.
func PromptedScope(t tactic.Tactic) string {
	return promptedScopePrefix + string(t)
}

// ScopeResult is one coefficient value for one scope. Value is nil when the
// slice had too little data to define the coefficient; SampleSize is the
// number of qualifying items (conversations, for MASI) in the slice.
type ScopeResult struct {
	Value      *float64 `json:"value"`
	SampleSize int      `json:"sample_size"`
}

// Band is one qualitative interpretation band for Krippendorff's alpha.
// Bands are metadata: they never alter reported values.
type Band struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
}

// InterpretationBands returns the conventional alpha reading bands.
func InterpretationBands() []Band {
	return []Band{
		{Label: "perfect", Min: 1.0},
		{Label: "good", Min: 0.8},
		{Label: "tentative", Min: 0.67},
		{Label: "poor", Min: 0},
		{Label: "worse than chance", Min: -1},
	}
}

// InterpretAlpha returns the band label for an alpha value.
func InterpretAlpha(alpha float64) string {
	switch {
	case alpha == 1.0:
		return "perfect"
	case alpha >= 0.8:
		return "good"
	case alpha >= 0.67:
		return "tentative"
	case alpha >= 0:
		return "poor"
	default:
		return "worse than chance"
	}
}

// Binarization echoes the convention a report was produced under.
type Binarization struct {
	Threshold int  `json:"threshold"`
	Inclusive bool `json:"inclusive"`
}

// Exclusions reports how much data the >=2-rater filter dropped.
type Exclusions struct {
	Groups        int `json:"groups"`
	Conversations int `json:"conversations"`
}

// Report is the full analysis output: every coefficient kind mapped over
// every scope, with ordinal-score alpha alongside the binary coefficients,
// plus the accounting needed to interpret the numbers.
type Report struct {
	Binarization Binarization                               `json:"binarization"`
	Coefficients map[CoefficientKind]map[string]ScopeResult `json:"coefficients"`
	OrdinalAlpha map[string]ScopeResult                     `json:"ordinal_alpha"`
	Excluded     Exclusions                                 `json:"excluded"`
	Annotators   []AnnotatorActivity                        `json:"annotators"`
	Bands        []Band                                     `json:"interpretation_bands"`
}

// Run executes the full analysis pass: normalize, group and filter, then
// compute all three coefficients over the overall, per-tactic, and
// prompted-category scopes. The configuration is validated before anything
// is computed; after that, scopes degrade independently to nil values and
// the report is always produced in full.
func Run(cfg Config, subs []Submission, convs []ConversationMeta) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	raw := ExtractRawRatings(subs)
	binary, err := BinaryRecords(raw, cfg)
	if err != nil {
		return nil, err
	}
	ordinal := OrdinalRecords(raw)

	binGroups := BuildGroups(binary)
	ordGroups := BuildGroups(ordinal)

	report := &Report{
		Binarization: Binarization{Threshold: *cfg.Threshold, Inclusive: *cfg.Inclusive},
		Coefficients: map[CoefficientKind]map[string]ScopeResult{
			KindKrippendorff: {},
			KindGwetAC1:      {},
			KindMASI:         {},
		},
		OrdinalAlpha: map[string]ScopeResult{},
		Excluded: Exclusions{
			Groups:        binGroups.ExcludedGroups,
			Conversations: binGroups.ExcludedConversations,
		},
		Annotators: CountAnnotatorActivity(subs),
		Bands:      InterpretationBands(),
	}

	// Overall and per-tactic slices share one code path; a slice is just a
	// different subset of qualifying groups.
	slices := []struct {
		scope  string
		groups func(Grouping) ([]Group, error)
	}{
		{ScopeOverall, func(g Grouping) ([]Group, error) { return g.Qualifying, nil }},
	}
	for _, t := range tactic.All() {
		t := t
		slices = append(slices, struct {
			scope  string
			groups func(Grouping) ([]Group, error)
		}{string(t), func(g Grouping) ([]Group, error) { return g.FilterTactic(t) }})
		slices = append(slices, struct {
			scope  string
			groups func(Grouping) ([]Group, error)
		}{PromptedScope(t), func(g Grouping) ([]Group, error) {
			return g.PromptedSlice(t, convs, cfg.includeGeneral())
		}})
	}

	for _, s := range slices {
		bin, err := s.groups(binGroups)
		if err != nil {
			return nil, fmt.Errorf("slicing %s: %w", s.scope, err)
		}
		report.Coefficients[KindKrippendorff][s.scope] = ScopeResult{
			Value:      KrippendorffAlpha(bin, NominalDistance),
			SampleSize: len(bin),
		}
		report.Coefficients[KindGwetAC1][s.scope] = ScopeResult{
			Value:      GwetAC1(bin),
			SampleSize: len(bin),
		}
		report.Coefficients[KindMASI][s.scope] = masiScope(s.scope, binary, bin)

		ord, err := s.groups(ordGroups)
		if err != nil {
			return nil, fmt.Errorf("slicing %s: %w", s.scope, err)
		}
		report.OrdinalAlpha[s.scope] = ScopeResult{
			Value:      KrippendorffAlpha(ord, NominalDistance),
			SampleSize: len(ord),
		}
	}

	return report, nil
}

// masiScope computes the MASI entry for one scope. Overall MASI compares
// full endorsed sets; tactic and prompted scopes compare the singleton
// restriction over the slice's conversations.
func masiScope(scope string, binary []AnnotationRecord, sliceGroups []Group) ScopeResult {
	if scope == ScopeOverall {
		v, n := MeanPairwiseMASI(EndorsedSets(binary))
		return ScopeResult{Value: v, SampleSize: n}
	}

	// Restrict the binary records to the slice's items, then run the
	// singleton comparison for the slice's tactic.
	t := sliceTactic(scope)
	inSlice := map[ItemKey]bool{}
	for _, g := range sliceGroups {
		inSlice[g.Key] = true
	}
	var restricted []AnnotationRecord
	for _, rec := range binary {
		if inSlice[rec.Key] {
			restricted = append(restricted, rec)
		}
	}
	v, n := PerTacticMASI(restricted, t)
	return ScopeResult{Value: v, SampleSize: n}
}

// sliceTactic recovers the tactic a scope name refers to.
func sliceTactic(scope string) tactic.Tactic {
	if len(scope) > len(promptedScopePrefix) && scope[:len(promptedScopePrefix)] == promptedScopePrefix {
		return tactic.Tactic(scope[len(promptedScopePrefix):])
	}
	return tactic.Tactic(scope)
}
