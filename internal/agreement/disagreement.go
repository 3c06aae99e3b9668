package agreement

// RaterLabel is one rater's binary label inside a disagreement listing.
type RaterLabel struct {
	Rater string `json:"rater"`
	Label string `json:"label"`
}

// Disagreement identifies a qualifying group whose raters split on the
// binary label, with every rater's label for review.
type Disagreement struct {
	ConversationID string       `json:"conversation_uuid"`
	Tactic         string       `json:"tactic"`
	Labels         []RaterLabel `json:"labels"`
}

// BinaryDisagreements lists the groups whose binary labels are not
// unanimous, in item-key order. Input is expected to be binary-valued
// qualifying groups (typically one tactic's slice).
func BinaryDisagreements(groups []Group) []Disagreement {
	var out []Disagreement
	for _, g := range groups {
		if g.distinctRaters() < 2 {
			continue
		}
		unanimous := true
		first := g.Records[0].Value
		for _, rec := range g.Records[1:] {
			if rec.Value != first {
				unanimous = false
				break
			}
		}
		if unanimous {
			continue
		}
		d := Disagreement{
			ConversationID: g.Key.ConversationID,
			Tactic:         string(g.Key.Tactic),
		}
		for _, rec := range g.Records {
			d.Labels = append(d.Labels, RaterLabel{Rater: rec.Rater, Label: rec.Value})
		}
		out = append(out, d)
	}
	return out
}
