package formscope

import (
	"context"
	"fmt"
	"sort"
)

// runPhase3 performs the iterative solver-driven gap-fill. While
// uncovered (U, the reachable-but-uncovered
// set Phase 2 produced) is non-empty, it asks the solver for a model
// satisfying the validity constraint and the disjunction of
// visible(q) over every q still in U, turns that model into a
// scenario, and removes from U every question the new scenario
// happens to cover.
//
// Termination: each iteration's disjunction guarantees the returned
// model covers at least one member of U (an unsatisfiable result is an
// internal inconsistency, since Phase 2 already confirmed every member
// of U is individually reachable under the same validity constraint),
// so U strictly shrinks on every iteration and the loop runs at most
// len(U) times.
func runPhase3(ctx context.Context, s Solver, m *Model, uncovered map[string]bool) ([]*Scenario, bool, error) {
	var added []*Scenario

	for len(uncovered) > 0 {
		select {
		case <-ctx.Done():
			return added, true, nil
		default:
		}

		ids := make([]string, 0, len(uncovered))
		for id := range uncovered {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		disjuncts := make([]Predicate, 0, len(ids))
		for _, id := range ids {
			if expr := m.Visibility[id]; expr != nil {
				disjuncts = append(disjuncts, expr)
			} else {
				disjuncts = append(disjuncts, &And{})
			}
		}

		if err := s.Push(); err != nil {
			return nil, false, err
		}
		if err := s.Assert(&Or{Operands: disjuncts}); err != nil {
			s.Pop()
			return nil, false, err
		}
		sat, err := s.CheckSat(ctx)
		if err != nil {
			s.Pop()
			if ctx.Err() != nil {
				return added, true, nil
			}
			return nil, false, err
		}
		if !sat {
			s.Pop()
			return nil, false, fmt.Errorf("%w: gap-fill query over %d reachable question(s) unsatisfiable", ErrInternalInconsistency, len(ids))
		}
		model, err := s.Model()
		s.Pop()
		if err != nil {
			return nil, false, err
		}

		sc, err := newScenario(m, model)
		if err != nil {
			return nil, false, err
		}
		added = append(added, sc)

		progressed := false
		for _, id := range ids {
			if sc.Visible[id] {
				delete(uncovered, id)
				progressed = true
			}
		}
		if !progressed {
			return nil, false, fmt.Errorf("%w: gap-fill model covered none of the %d targeted question(s)", ErrInternalInconsistency, len(ids))
		}
	}

	return added, false, nil
}
