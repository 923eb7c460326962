package formscope

import "testing"

func TestEncodeDomainSizes(t *testing.T) {
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	m, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if got, want := m.DomainSize["q0"], 2; got != want {
		t.Errorf("DomainSize[q0] = %d, want %d", got, want)
	}
	if got, want := m.DomainSize["q1"], 2; got != want {
		t.Errorf("DomainSize[q1] = %d, want %d", got, want)
	}
}

func TestEncodeVisibilityChain(t *testing.T) {
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	m, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// q3 depends on q1 == "yes", which itself only exists when q0 ==
	// "a"; q3 must not be visible just because q1 == 1 if q0 != 1.
	visibleButWrongAncestor := map[string]int{"q0": 2, "q1": 1}
	if m.IsVisible("q3", visibleButWrongAncestor) {
		t.Errorf("q3 visible with q0=2 (not 'a'), want chain to block it")
	}

	fullyVisible := map[string]int{"q0": 1, "q1": 1}
	if !m.IsVisible("q3", fullyVisible) {
		t.Errorf("q3 not visible with q0=1 (a), q1=1 (yes)")
	}
}

func TestEncodeInvalidDomainNonContiguous(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0, Choices: []Choice{{ID: "a", Encoding: 1}, {ID: "b", Encoding: 3}}},
		{ID: "q1", Position: 1, Predicate: &Equals{QuestionID: "q0", Choice: "a"}},
	}}
	c, err := Classify(form)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	_, err = Encode(c)
	if err == nil {
		t.Fatal("Encode: expected ErrInvalidDomain")
	}
}

func TestEncodeFreeformLiteralEncoding(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0, Kind: DomainFreeform},
		{ID: "q1", Position: 1, Predicate: &Equals{QuestionID: "q0", Choice: "urgent"}},
		{ID: "q2", Position: 2, Predicate: &Equals{QuestionID: "q0", Choice: "low"}},
	}}
	c, err := Classify(form)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	m, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Two distinct literals plus "other" means a 3-value domain.
	if got, want := m.DomainSize["q0"], 3; got != want {
		t.Errorf("DomainSize[q0] = %d, want %d", got, want)
	}
	if !m.IsVisible("q1", map[string]int{"q0": 1}) {
		t.Error("q1 should be visible when q0 encodes 'urgent' (first literal seen, encoding 1)")
	}
	if !m.IsVisible("q2", map[string]int{"q0": 2}) {
		t.Error("q2 should be visible when q0 encodes 'low' (second literal seen, encoding 2)")
	}
}

func TestValidRejectsNonzeroUnderInvisibleQuestion(t *testing.T) {
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	m, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// q1 assigned nonzero while q0 selects "b", so q1 is not visible.
	invalid := map[string]int{"q0": 2, "q1": 1}
	if m.Valid(invalid) {
		t.Error("Valid: expected false for a nonzero assignment under an invisible question")
	}
}
