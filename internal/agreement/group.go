package agreement

import (
	"fmt"
	"sort"

	"github.com/manip-survey-data/agreement.report/internal/monitoring"
	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// Grouping is the filtered result of grouping annotation records by item
// key. Only qualifying groups (two or more distinct raters) are kept;
// exclusion counts are carried because they materially affect how the
// resulting coefficients should be read.
type Grouping struct {
	// Qualifying holds the groups with >=2 distinct raters, sorted by item
	// key.
	Qualifying []Group

	// ExcludedGroups counts (conversation, tactic) groups dropped for having
	// fewer than two distinct raters.
	ExcludedGroups int

	// ExcludedConversations counts conversations none of whose groups
	// qualified.
	ExcludedConversations int
}

// BuildGroups groups records by item key and drops groups with fewer than
// two distinct raters. Duplicate (rater, item) submissions keep the first
// record seen and log the rest; deduplication is an upstream concern, so a
// duplicate here indicates a store problem worth surfacing.
func BuildGroups(records []AnnotationRecord) Grouping {
	byKey := map[ItemKey][]AnnotationRecord{}
	seen := map[string]bool{}
	for _, rec := range records {
		dup := rec.Key.String() + "|" + rec.Rater
		if seen[dup] {
			monitoring.Logf("duplicate rating by %s on item %s; keeping first", rec.Rater, rec.Key)
			continue
		}
		seen[dup] = true
		byKey[rec.Key] = append(byKey[rec.Key], rec)
	}

	var g Grouping
	conversationQualified := map[string]bool{}
	conversationSeen := map[string]bool{}
	for key, recs := range byKey {
		conversationSeen[key.ConversationID] = true
		group := Group{Key: key, Records: recs}
		sort.Slice(group.Records, func(i, j int) bool {
			return group.Records[i].Rater < group.Records[j].Rater
		})
		if group.distinctRaters() < 2 {
			g.ExcludedGroups++
			continue
		}
		conversationQualified[key.ConversationID] = true
		g.Qualifying = append(g.Qualifying, group)
	}
	sortGroups(g.Qualifying)

	for conv := range conversationSeen {
		if !conversationQualified[conv] {
			g.ExcludedConversations++
		}
	}
	return g
}

// FilterTactic returns the qualifying groups for one tactic. Requesting an
// unknown tactic is a configuration error.
func (g Grouping) FilterTactic(t tactic.Tactic) ([]Group, error) {
	if !tactic.IsValid(t) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTactic, t)
	}
	var out []Group
	for _, group := range g.Qualifying {
		if group.Key.Tactic == t {
			out = append(out, group)
		}
	}
	return out, nil
}

// PromptedSlice restricts a tactic's qualifying groups to conversations that
// were prompted to exhibit that tactic. The "general" tactic has no prompted
// category, so its slice always includes every conversation's general group.
// When includeGeneral is set, the prompted conversations' general groups are
// unioned into a non-general slice as well.
func (g Grouping) PromptedSlice(t tactic.Tactic, meta []ConversationMeta, includeGeneral bool) ([]Group, error) {
	if !tactic.IsValid(t) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTactic, t)
	}
	if t == tactic.General {
		return g.FilterTactic(tactic.General)
	}

	promptedAs := map[string]tactic.Tactic{}
	for _, m := range meta {
		if p, ok := tactic.FromPromptedAs(m.PromptedAs); ok {
			promptedAs[m.UUID] = p
		}
	}

	var out []Group
	for _, group := range g.Qualifying {
		if promptedAs[group.Key.ConversationID] != t {
			continue
		}
		if group.Key.Tactic == t || (includeGeneral && group.Key.Tactic == tactic.General) {
			out = append(out, group)
		}
	}
	return out, nil
}

// ConversationsIn returns the distinct conversation ids covered by the
// given groups, sorted.
func ConversationsIn(groups []Group) []string {
	seen := map[string]bool{}
	for _, g := range groups {
		seen[g.Key.ConversationID] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
