package stats

import "sort"

// SelectSevereProblems ranks rated problems most severe first: mean
// rating, then rating count, then catalog order. top <= 0 keeps all.
func SelectSevereProblems(aggs []ProblemAggregate, top int) []ProblemAggregate {
	candidates := make([]ProblemAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Count > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Mean == candidates[j].Mean {
			if candidates[i].Count == candidates[j].Count {
				return candidates[i].Problem.Index < candidates[j].Problem.Index
			}
			return candidates[i].Count > candidates[j].Count
		}
		return candidates[i].Mean > candidates[j].Mean
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
