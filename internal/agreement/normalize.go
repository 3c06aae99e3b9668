package agreement

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/manip-survey-data/agreement.report/internal/monitoring"
	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// ExtractRawRatings flattens survey submissions into one RawRating per
// present, non-null tactic score. A field that cannot be read as an integer
// is logged and skipped; the rest of the submission is still processed.
// Output order follows the input submission order, with tactics in canonical
// order within each submission.
func ExtractRawRatings(subs []Submission) []RawRating {
	var out []RawRating
	for _, sub := range subs {
		for _, t := range tactic.All() {
			v, present := sub.Fields[tactic.FieldName(t)]
			if !present || v == nil {
				continue
			}
			score, err := coerceScore(v)
			if err != nil {
				monitoring.Logf("skipping %s for rater %s on conversation %s: %v",
					tactic.FieldName(t), sub.Rater, sub.ConversationID, err)
				continue
			}
			out = append(out, RawRating{
				Rater:          sub.Rater,
				ConversationID: sub.ConversationID,
				Tactic:         t,
				Score:          score,
			})
		}
	}
	return out
}

// coerceScore reads a score out of the loosely typed store representation.
// Integer-valued floats are accepted because JSON decoding produces float64.
func coerceScore(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("score %v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("score %q is not an integer", n.String())
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("score %q is not numeric", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("score has unsupported type %T", v)
	}
}

// Binarize converts an ordinal score to a binary label under the configured
// convention: score > threshold when inclusive is false, score >= threshold
// when true.
func Binarize(score, threshold int, inclusive bool) int {
	if inclusive {
		if score >= threshold {
			return 1
		}
		return 0
	}
	if score > threshold {
		return 1
	}
	return 0
}

// OrdinalRecords converts raw ratings to annotation records whose values are
// the ordinal scores as labels.
func OrdinalRecords(ratings []RawRating) []AnnotationRecord {
	out := make([]AnnotationRecord, len(ratings))
	for i, r := range ratings {
		out[i] = AnnotationRecord{
			Rater: r.Rater,
			Key:   ItemKey{ConversationID: r.ConversationID, Tactic: r.Tactic},
			Value: strconv.Itoa(r.Score),
		}
	}
	return out
}

// BinaryRecords converts raw ratings to annotation records with binary
// labels under the configuration's threshold convention. The config must
// already be validated.
func BinaryRecords(ratings []RawRating, cfg Config) ([]AnnotationRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]AnnotationRecord, len(ratings))
	for i, r := range ratings {
		out[i] = AnnotationRecord{
			Rater: r.Rater,
			Key:   ItemKey{ConversationID: r.ConversationID, Tactic: r.Tactic},
			Value: strconv.Itoa(Binarize(r.Score, *cfg.Threshold, *cfg.Inclusive)),
		}
	}
	return out, nil
}

// AnnotatorActivity is the per-rater submission count, reported alongside
// coefficients so sparse raters are visible when interpreting results.
type AnnotatorActivity struct {
	Rater       string `json:"rater"`
	Submissions int    `json:"submissions"`
}

// CountAnnotatorActivity tallies submissions per rater, sorted by rater id.
func CountAnnotatorActivity(subs []Submission) []AnnotatorActivity {
	counts := map[string]int{}
	for _, s := range subs {
		counts[s.Rater]++
	}
	raters := make([]string, 0, len(counts))
	for r := range counts {
		raters = append(raters, r)
	}
	sort.Strings(raters)
	out := make([]AnnotatorActivity, len(raters))
	for i, r := range raters {
		out[i] = AnnotatorActivity{Rater: r, Submissions: counts[r]}
	}
	return out
}
