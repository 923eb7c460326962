package formscope

import "context"

// Synthesize runs the full pipeline (Encoder, then Synthesizer Phases
// 1-3, then Minimizer) against an already-classified form and returns
// the resulting test plan.
//
// s is a caller-supplied Solver backend (pkg/satsolver's real
// SAT-backed solver in production, MockSolver in tests); Synthesize
// declares every test variable and asserts the validity constraint on
// it before running Phase 2 and Phase 3, and closes it before
// returning.
//
// ctx governs the whole run: if it is cancelled or its
// deadline expires during Phase 2 or Phase 3, Synthesize returns
// whatever plan it was able to assemble with Partial set to true,
// rather than failing the run outright. A deadline expiring during
// Phase 1 is a hard failure, since Phase 1 establishes the pool every
// later phase depends on.
func Synthesize(ctx context.Context, c *Classification, s Solver) (*TestPlan, error) {
	defer s.Close()
	m, err := Encode(c)
	if err != nil {
		return nil, err
	}

	if err := DeclareModel(s, m); err != nil {
		return nil, err
	}
	if err := AssertValidityConstraint(s, m); err != nil {
		return nil, err
	}

	pool, err := runPhase1(ctx, m)
	if err != nil {
		return nil, err
	}

	covered := coverageSet(pool)
	uncovered, dead, timedOut, err := runPhase2(ctx, s, m, covered)
	if err != nil {
		return nil, err
	}

	partial := timedOut
	var added []*Scenario
	if !timedOut {
		added, timedOut, err = runPhase3(ctx, s, m, uncovered)
		if err != nil {
			return nil, err
		}
		partial = partial || timedOut
	}
	pool = append(pool, added...)

	reachable := make(map[string]bool, len(c.Form.Questions))
	deadSet := make(map[string]bool, len(dead))
	for _, id := range dead {
		deadSet[id] = true
	}
	for i := range c.Form.Questions {
		id := c.Form.Questions[i].ID
		if !deadSet[id] {
			reachable[id] = true
		}
	}

	selected := Minimize(pool)
	finalCovered := coverageSet(selected)

	return &TestPlan{
		Form:      c.Form,
		Model:     m,
		Scenarios: selected,
		Summary:   newCoverageSummary(c.Form, reachable, finalCovered, dead),
		Partial:   partial,
	}, nil
}
