package performance

import "github.com/google/uuid"

// AggregateFeedback groups rows by feedback type in order of first
// appearance and applies the anonymity policy: a type whose only entry is
// anonymous is dropped, and anonymous providers in the remaining groups are
// replaced with uuid.Nil.
func AggregateFeedback(rows []Feedback) []FeedbackGroup {
	order := make([]FeedbackType, 0, 4)
	groups := make(map[FeedbackType][]Feedback, 4)
	for _, row := range rows {
		if _, seen := groups[row.Type]; !seen {
			order = append(order, row.Type)
		}
		groups[row.Type] = append(groups[row.Type], row)
	}

	result := make([]FeedbackGroup, 0, len(order))
	for _, ft := range order {
		members := groups[ft]
		if len(members) == 1 && members[0].Anonymous {
			continue
		}
		entries := make([]Feedback, len(members))
		for i, member := range members {
			if member.Anonymous {
				member.ProviderID = uuid.Nil
			}
			entries[i] = member
		}
		result = append(result, FeedbackGroup{Type: ft, Entries: entries})
	}
	return result
}
