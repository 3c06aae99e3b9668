// Package agreement implements chance-corrected inter-rater agreement
// statistics over manipulation-tactic survey ratings: Krippendorff's alpha,
// Gwet's AC1, and MASI set agreement, each computable overall, per tactic,
// and per prompted category.
//
// The package is a pure computation engine. It consumes already-materialized
// snapshots of survey submissions and conversation metadata, holds no state
// between invocations, and enumerates raters, items, and label values in
// sorted order so the same input always produces the same report.
package agreement

import (
	"fmt"
	"sort"

	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// Submission is one rater's survey response for one conversation, in the
// loose field-map shape the store keeps it in. Tactic scores live under
// "manipulative_*" keys; other fields are ignored by the engine.
type Submission struct {
	Rater          string
	ConversationID string
	Fields         map[string]interface{}
}

// ConversationMeta carries the per-conversation metadata the engine needs:
// the identifier and the tactic the conversation was prompted to exhibit.
// PromptedAs is the raw label as stored; it is empty when the conversation
// was not deliberately prompted.
type ConversationMeta struct {
	UUID       string
	PromptedAs string
}

// RawRating is a single rater's ordinal 1-7 score for one
// (conversation, tactic). Absent ratings never produce a RawRating.
type RawRating struct {
	Rater          string
	ConversationID string
	Tactic         tactic.Tactic
	Score          int
}

// ItemKey identifies the unit of agreement analysis: a conversation judged
// on one tactic.
type ItemKey struct {
	ConversationID string
	Tactic         tactic.Tactic
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s_%s", k.ConversationID, k.Tactic)
}

// less orders item keys by conversation then tactic, the canonical order for
// all item iteration.
func (k ItemKey) less(o ItemKey) bool {
	if k.ConversationID != o.ConversationID {
		return k.ConversationID < o.ConversationID
	}
	return k.Tactic < o.Tactic
}

// AnnotationRecord is the (rater, item, value) triple every calculator
// consumes. Value is a category label: an ordinal score ("1".."7"), a binary
// label ("0"/"1"), or an encoded tactic set for set-valued analysis.
type AnnotationRecord struct {
	Rater string
	Key   ItemKey
	Value string
}

// Group is the set of annotation records sharing one item key, with records
// sorted by rater. A group qualifies for agreement computation only when it
// holds records from at least two distinct raters.
type Group struct {
	Key     ItemKey
	Records []AnnotationRecord
}

// distinctRaters returns the number of distinct rater ids in the group.
func (g Group) distinctRaters() int {
	seen := map[string]bool{}
	for _, r := range g.Records {
		seen[r.Rater] = true
	}
	return len(seen)
}

// values returns the group's labels in record (rater-sorted) order.
func (g Group) values() []string {
	vals := make([]string, len(g.Records))
	for i, r := range g.Records {
		vals[i] = r.Value
	}
	return vals
}

func sortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key.less(groups[j].Key) })
}
