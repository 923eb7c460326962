package formscope

import "context"

// runPhase1 performs the branch-aware enumeration: a recursive
// descent over test variables in topological
// (ordinal) order, assigning 0 to any variable not visible under the
// assignment built so far and branching over every nonzero domain
// value for a variable that is visible. Fixing an invisible variable to
// 0 rather than branching over its domain is what keeps this
// enumeration proportional to the branch structure instead of the full
// Cartesian product of every question's domain.
//
// Each complete assignment reaching a leaf is validated against the
// scenario-validity invariant (newScenario's safety-net check) before
// joining the pool.
func runPhase1(ctx context.Context, m *Model) ([]*Scenario, error) {
	tvs := m.Classification.TestVariables
	assignment := make(map[string]int, len(tvs))
	var pool []*Scenario

	var recurse func(i int) error
	recurse = func(i int) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if i == len(tvs) {
			sc, err := newScenario(m, assignment)
			if err != nil {
				return err
			}
			pool = append(pool, sc)
			return nil
		}

		id := tvs[i]
		if !m.IsVisible(id, assignment) {
			assignment[id] = 0
			defer delete(assignment, id)
			return recurse(i + 1)
		}

		for v := 1; v <= m.DomainSize[id]; v++ {
			assignment[id] = v
			if err := recurse(i + 1); err != nil {
				delete(assignment, id)
				return err
			}
		}
		delete(assignment, id)
		return nil
	}

	if err := recurse(0); err != nil {
		return nil, err
	}
	return pool, nil
}
