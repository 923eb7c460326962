package formscope

import (
	"context"
	"testing"
)

func TestSynthesizeEndToEnd(t *testing.T) {
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	plan, err := Synthesize(context.Background(), c, NewMockSolver())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if plan.Partial {
		t.Error("Synthesize: unexpected partial plan against an unbounded context")
	}
	if len(plan.Scenarios) == 0 {
		t.Fatal("Synthesize: expected at least one scenario")
	}
	if plan.Summary.CoveredQuestions != plan.Summary.ReachableQuestions {
		t.Errorf("coverage = %d/%d, want full coverage of every reachable question",
			plan.Summary.CoveredQuestions, plan.Summary.ReachableQuestions)
	}
	if len(plan.Summary.DeadQuestions) != 0 {
		t.Errorf("DeadQuestions = %v, want none", plan.Summary.DeadQuestions)
	}

	for _, sc := range plan.Scenarios {
		if !plan.Model.Valid(sc.Assignment) {
			t.Errorf("scenario %s violates the validity invariant", sc.ID)
		}
	}
}

func TestSynthesizeHardFailsOnDeadlineExpiredBeforePhase1(t *testing.T) {
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Phase 1 establishes the pool every later phase depends on, so a
	// deadline that has already expired before it runs is a hard
	// failure rather than a partial plan.
	_, err = Synthesize(ctx, c, NewMockSolver())
	if err == nil {
		t.Fatal("Synthesize: expected an error from an already-cancelled context")
	}
}

// cancelOnCheckSat wraps a Solver and cancels a context the first time
// CheckSat runs, deterministically reproducing "the deadline expired
// partway through Phase 2/3" without relying on real elapsed time.
type cancelOnCheckSat struct {
	Solver
	cancel context.CancelFunc
}

func (s *cancelOnCheckSat) CheckSat(ctx context.Context) (bool, error) {
	s.cancel()
	return s.Solver.CheckSat(ctx)
}

func TestSynthesizePartialWhenDeadlineExpiresDuringPhase2(t *testing.T) {
	// sampleForm is fully covered by Phase 1, so Phase 2 would never
	// call CheckSat on it. q1 here can never be visible, so Phase 1
	// leaves it uncovered and Phase 2 must query the solver for it.
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0, Choices: []Choice{{ID: "a", Encoding: 1}}},
		{
			ID: "q1", Position: 1,
			Predicate: &And{Operands: []Predicate{
				&Equals{QuestionID: "q0", Choice: "a"},
				&NotEquals{QuestionID: "q0", Choice: "a"},
			}},
		},
	}}
	c, err := Classify(form)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &cancelOnCheckSat{Solver: NewMockSolver()}
	s.cancel = cancel

	plan, err := Synthesize(ctx, c, s)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !plan.Partial {
		t.Error("Synthesize: expected Partial=true once the context is cancelled mid-Phase-2")
	}
}
