package formscope

import (
	"context"
	"testing"
)

func encodeSample(t *testing.T) *Model {
	t.Helper()
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	m, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return m
}

func TestRunPhase1EnumeratesBranches(t *testing.T) {
	m := encodeSample(t)
	pool, err := runPhase1(context.Background(), m)
	if err != nil {
		t.Fatalf("runPhase1: %v", err)
	}

	// q0 (domain size 2) x q1 (domain size 2, only branched when q0==1)
	// gives: q0=1,q1=1 ; q0=1,q1=2 ; q0=2,q1=0 -> 3 scenarios.
	if len(pool) != 3 {
		t.Fatalf("len(pool) = %d, want 3", len(pool))
	}

	for _, sc := range pool {
		if sc.Assignment["q0"] == 2 && sc.Assignment["q1"] != 0 {
			t.Errorf("q1 should be fixed to 0 when q0=2 (invisible), got %d", sc.Assignment["q1"])
		}
	}
}

func TestRunPhase1RespectsContextCancellation(t *testing.T) {
	m := encodeSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runPhase1(ctx, m)
	if err == nil {
		t.Fatal("runPhase1: expected an error from an already-cancelled context")
	}
}
