package formscope

import "sort"

// Minimize reduces a scenario pool to a small coverage-equivalent
// subset via greedy set cover; the result is not guaranteed to be the
// smallest such subset. At each step it picks
// the pool scenario that covers the most not-yet-covered questions,
// breaking ties by preferring the scenario with the fewest nonzero
// test-variable assignments (the "simplest" scenario), and breaking
// any remaining tie by earliest pool insertion order. Selected
// scenarios are returned in the order they were selected, each
// stamped with the question IDs it newly covers at selection time
// (Scenario.NewlyCovered) — the marginal coverage contribution this
// scenario adds to the plan.
func Minimize(pool []*Scenario) []*Scenario {
	covered := make(map[string]bool)
	used := make([]bool, len(pool))
	var selected []*Scenario

	for {
		best := -1
		var bestNew []string
		for i, sc := range pool {
			if used[i] {
				continue
			}
			n := newlyCoveredIDs(sc, covered)
			if len(n) == 0 {
				continue
			}
			switch {
			case best == -1:
				best, bestNew = i, n
			case len(n) > len(bestNew):
				best, bestNew = i, n
			case len(n) == len(bestNew) && pool[i].NonzeroCount() < pool[best].NonzeroCount():
				best, bestNew = i, n
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		pool[best].NewlyCovered = bestNew
		selected = append(selected, pool[best])
		for _, id := range bestNew {
			covered[id] = true
		}
	}
	return selected
}

// newlyCoveredIDs returns, in sorted order, the question IDs sc makes
// visible that are not already in covered.
func newlyCoveredIDs(sc *Scenario, covered map[string]bool) []string {
	var ids []string
	for id, vis := range sc.Visible {
		if vis && !covered[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
