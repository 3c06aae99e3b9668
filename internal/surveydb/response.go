package surveydb

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// SurveyResponse is one annotator's rating form for one conversation.
// Scores holds the 1-7 Likert rating per manipulation tactic; a missing key
// means the annotator left that tactic unrated.
type SurveyResponse struct {
	ID               int                   `json:"id"`
	Username         string                `json:"username"`
	ConversationUUID string                `json:"conversation_uuid"`
	Scores           map[tactic.Tactic]int `json:"scores"`
	SubmittedAt      time.Time             `json:"submitted_at"`
}

// SaveResponse stores a response, replacing any earlier submission by the
// same annotator for the same conversation. The latest form wins; the
// analysis layer never sees the superseded one.
func (db *DB) SaveResponse(r *SurveyResponse) error {
	if r.Username == "" || r.ConversationUUID == "" {
		return fmt.Errorf("response requires username and conversation uuid")
	}
	for t, score := range r.Scores {
		if !tactic.IsValid(t) {
			return fmt.Errorf("unknown tactic %q in response", t)
		}
		if score < 1 || score > 7 {
			return fmt.Errorf("score %d for %s out of range [1,7]", score, t)
		}
	}

	cols := []string{"username", "conversation_uuid"}
	args := []interface{}{r.Username, r.ConversationUUID}
	for _, t := range tactic.All() {
		cols = append(cols, tactic.FieldName(t))
		if score, ok := r.Scores[t]; ok {
			args = append(args, score)
		} else {
			args = append(args, nil)
		}
	}

	query := fmt.Sprintf(
		`INSERT OR REPLACE INTO survey_responses (%s) VALUES (%s)`,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if _, err := db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to save response by %q for %s: %w",
			r.Username, r.ConversationUUID, err)
	}
	return nil
}

// ListResponses returns all responses ordered by conversation then
// annotator.
func (db *DB) ListResponses() ([]SurveyResponse, error) {
	cols := []string{"id", "username", "conversation_uuid"}
	for _, t := range tactic.All() {
		cols = append(cols, tactic.FieldName(t))
	}
	cols = append(cols, "submitted_at")

	query := fmt.Sprintf(
		`SELECT %s FROM survey_responses ORDER BY conversation_uuid, username`,
		strings.Join(cols, ", "))
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	tactics := tactic.All()
	var out []SurveyResponse
	for rows.Next() {
		var r SurveyResponse
		scores := make([]*int, len(tactics))
		dest := []interface{}{&r.ID, &r.Username, &r.ConversationUUID}
		for i := range scores {
			dest = append(dest, &scores[i])
		}
		dest = append(dest, &r.SubmittedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		r.Scores = map[tactic.Tactic]int{}
		for i, t := range tactics {
			if scores[i] != nil {
				r.Scores[t] = *scores[i]
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ResponseCounts returns the number of responses per annotator, sorted by
// username.
func (db *DB) ResponseCounts() (map[string]int, []string, error) {
	rows, err := db.Query(
		`SELECT username, COUNT(*) FROM survey_responses GROUP BY username`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count responses: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var user string
		var n int
		if err := rows.Scan(&user, &n); err != nil {
			return nil, nil, fmt.Errorf("failed to scan response count: %w", err)
		}
		counts[user] = n
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	users := make([]string, 0, len(counts))
	for u := range counts {
		users = append(users, u)
	}
	sort.Strings(users)
	return counts, users, nil
}
