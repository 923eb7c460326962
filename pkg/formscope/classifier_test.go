package formscope

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleForm builds a small branching form: q0 gates q1 and q2, q1
// gates q3, q4 is unconditional — one gatekeeper fanning out to two
// branches, one of which has its own nested gate.
func sampleForm() *Form {
	return &Form{
		Name: "sample",
		Questions: []Question{
			{
				ID: "q0", Position: 0, Label: "plan type",
				Choices: []Choice{{ID: "a", Label: "Plan A", Encoding: 1}, {ID: "b", Label: "Plan B", Encoding: 2}},
			},
			{
				ID: "q1", Position: 1, Label: "addon a",
				Choices:   []Choice{{ID: "yes", Label: "Yes", Encoding: 1}, {ID: "no", Label: "No", Encoding: 2}},
				Predicate: &Equals{QuestionID: "q0", Choice: "a"},
			},
			{
				ID: "q2", Position: 2, Label: "addon b",
				Choices:   []Choice{{ID: "yes", Label: "Yes", Encoding: 1}, {ID: "no", Label: "No", Encoding: 2}},
				Predicate: &Equals{QuestionID: "q0", Choice: "b"},
			},
			{
				ID: "q3", Position: 3, Label: "addon a detail",
				Choices:   []Choice{{ID: "x", Encoding: 1}},
				Predicate: &Equals{QuestionID: "q1", Choice: "yes"},
			},
			{
				ID: "q4", Position: 4, Label: "comments", Kind: DomainFreeform,
			},
		},
	}
}

func TestClassifyPartition(t *testing.T) {
	c, err := Classify(sampleForm())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	sortedCopy := func(ids []string) []string {
		got := append([]string(nil), ids...)
		sort.Strings(got)
		return got
	}

	if diff := cmp.Diff([]string{"q0", "q1"}, sortedCopy(c.TestVariables)); diff != "" {
		t.Errorf("TestVariables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"q0"}, c.Gatekeepers); diff != "" {
		t.Errorf("Gatekeepers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"q2", "q3", "q4"}, sortedCopy(c.DataCollection)); diff != "" {
		t.Errorf("DataCollection mismatch (-want +got):\n%s", diff)
	}

	if !c.IsTestVariable("q0") || c.IsTestVariable("q4") {
		t.Errorf("IsTestVariable disagrees with partition")
	}
}

func TestClassifyUnknownReference(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0, Predicate: &Equals{QuestionID: "nope", Choice: "a"}},
	}}
	_, err := Classify(form)
	if !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("Classify error = %v, want ErrUnknownReference", err)
	}
}

func TestClassifyForwardReference(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0, Predicate: &Equals{QuestionID: "q1", Choice: "a"}},
		{ID: "q1", Position: 1},
	}}
	_, err := Classify(form)
	if !errors.Is(err, ErrForwardReference) {
		t.Fatalf("Classify error = %v, want ErrForwardReference", err)
	}
}

func TestClassifyDuplicateQuestion(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0},
		{ID: "q0", Position: 1},
	}}
	_, err := Classify(form)
	if !errors.Is(err, ErrDuplicateQuestion) {
		t.Fatalf("Classify error = %v, want ErrDuplicateQuestion", err)
	}
}

func TestClassifyReportsMultipleErrors(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q0", Position: 0, Predicate: &Equals{QuestionID: "missing", Choice: "a"}},
		{ID: "q1", Position: 1, Predicate: &Equals{QuestionID: "also-missing", Choice: "a"}},
	}}
	_, err := Classify(form)
	if err == nil {
		t.Fatal("Classify: expected an error")
	}
	var ce1, ce2 *ClassificationError
	count := 0
	for _, e := range unwrapAll(err) {
		if errors.As(e, &ce1) || errors.As(e, &ce2) {
			count++
		}
	}
	if count < 2 {
		t.Errorf("expected at least 2 classification errors reported, got %d (err=%v)", count, err)
	}
}

// unwrapAll flattens a multierror.Error (or any error) into its leaf
// causes, for tests that only care how many distinct problems were
// reported.
func unwrapAll(err error) []error {
	type unwrapper interface{ WrappedErrors() []error }
	if u, ok := err.(unwrapper); ok {
		return u.WrappedErrors()
	}
	return []error{err}
}
