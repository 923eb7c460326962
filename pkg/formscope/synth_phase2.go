package formscope

import (
	"context"
	"sort"
)

// runPhase2 builds the coverage inventory. Given the set of
// questions already covered by pool,
// every remaining question is classified by asking the solver whether
// visible(q) is satisfiable under the standing validity constraint:
// satisfiable means reachable-but-uncovered (added to the returned
// set), unsatisfiable means dead (the question can never be made
// visible by any valid assignment).
//
// timedOut reports whether ctx's deadline or cancellation interrupted
// the inventory before every question was classified; the caller
// surfaces this as a partial plan rather than a hard failure.
func runPhase2(ctx context.Context, s Solver, m *Model, covered map[string]bool) (uncovered map[string]bool, dead []string, timedOut bool, err error) {
	uncovered = make(map[string]bool)

	for i := range m.Classification.Form.Questions {
		q := &m.Classification.Form.Questions[i]
		if covered[q.ID] {
			continue
		}

		select {
		case <-ctx.Done():
			return uncovered, dead, true, nil
		default:
		}

		expr := m.Visibility[q.ID]
		if expr == nil {
			// An uncovered unconditional question means the pool handed
			// in covers nothing at all; it is trivially reachable.
			uncovered[q.ID] = true
			continue
		}

		sat, err := querySat(ctx, s, expr)
		if err != nil {
			if ctx.Err() != nil {
				return uncovered, dead, true, nil
			}
			return nil, nil, false, err
		}
		if sat {
			uncovered[q.ID] = true
		} else {
			dead = append(dead, q.ID)
		}
	}

	sort.Strings(dead)
	return uncovered, dead, false, nil
}

// querySat checks whether expr is satisfiable alongside every
// assertion currently standing on s, using a Push/Pop scope so the
// query leaves no trace once answered.
func querySat(ctx context.Context, s Solver, expr Predicate) (bool, error) {
	if err := s.Push(); err != nil {
		return false, err
	}
	defer s.Pop()

	if err := s.Assert(expr); err != nil {
		return false, err
	}
	return s.CheckSat(ctx)
}
