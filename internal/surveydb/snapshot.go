package surveydb

import (
	"github.com/manip-survey-data/agreement.report/internal/agreement"
	"github.com/manip-survey-data/agreement.report/internal/tactic"
)

// Snapshot reads the full response and conversation tables in the form the
// analysis engine consumes. Unrated tactics are omitted from the submission
// fields, matching how annotators leave parts of the form blank.
func (db *DB) Snapshot() ([]agreement.Submission, []agreement.ConversationMeta, error) {
	responses, err := db.ListResponses()
	if err != nil {
		return nil, nil, err
	}

	subs := make([]agreement.Submission, 0, len(responses))
	for _, r := range responses {
		fields := make(map[string]interface{}, len(r.Scores))
		for t, score := range r.Scores {
			fields[tactic.FieldName(t)] = score
		}
		subs = append(subs, agreement.Submission{
			Rater:          r.Username,
			ConversationID: r.ConversationUUID,
			Fields:         fields,
		})
	}

	convs, err := db.ListConversations(nil)
	if err != nil {
		return nil, nil, err
	}
	metas := make([]agreement.ConversationMeta, 0, len(convs))
	for _, c := range convs {
		metas = append(metas, agreement.ConversationMeta{
			UUID:       c.UUID,
			PromptedAs: c.PromptedAs,
		})
	}

	return subs, metas, nil
}
