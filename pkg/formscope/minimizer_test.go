package formscope

import (
	"reflect"
	"testing"
)

func scenarioWithVisible(vis ...string) *Scenario {
	v := make(map[string]bool, len(vis))
	for _, id := range vis {
		v[id] = true
	}
	return &Scenario{Assignment: map[string]int{}, Visible: v}
}

func TestMinimizeGreedySetCover(t *testing.T) {
	pool := []*Scenario{
		scenarioWithVisible("a", "b"),
		scenarioWithVisible("b", "c"),
		scenarioWithVisible("a", "b", "c", "d"),
	}

	selected := Minimize(pool)
	if len(selected) != 1 {
		t.Fatalf("len(selected) = %d, want 1 (scenario 3 alone covers everything)", len(selected))
	}
	if selected[0] != pool[2] {
		t.Errorf("Minimize picked the wrong scenario: expected the one covering all four questions")
	}
}

func TestMinimizeTieBreaksOnFewestNonzero(t *testing.T) {
	bigger := scenarioWithVisible("a", "b")
	bigger.Assignment = map[string]int{"x": 1, "y": 1, "z": 1}
	smaller := scenarioWithVisible("a", "b")
	smaller.Assignment = map[string]int{"x": 1}

	pool := []*Scenario{bigger, smaller}
	selected := Minimize(pool)
	if len(selected) != 1 || selected[0] != smaller {
		t.Fatalf("Minimize should prefer the scenario with fewer nonzero assignments on a coverage tie")
	}
}

func TestMinimizeSkipsScenariosWithNoNewCoverage(t *testing.T) {
	pool := []*Scenario{
		scenarioWithVisible("a"),
		scenarioWithVisible("a"), // adds nothing new once the first is picked
		scenarioWithVisible("b"),
	}
	selected := Minimize(pool)
	if len(selected) != 2 {
		t.Fatalf("len(selected) = %d, want 2", len(selected))
	}
}

func TestMinimizeEmptyPool(t *testing.T) {
	if got := Minimize(nil); got != nil {
		t.Errorf("Minimize(nil) = %v, want nil", got)
	}
}

func TestMinimizeStampsNewlyCovered(t *testing.T) {
	pool := []*Scenario{
		scenarioWithVisible("a", "b"),
		scenarioWithVisible("b", "c"),
	}

	selected := Minimize(pool)
	if len(selected) != 2 {
		t.Fatalf("len(selected) = %d, want 2", len(selected))
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(selected[0].NewlyCovered, want) {
		t.Errorf("selected[0].NewlyCovered = %v, want %v", selected[0].NewlyCovered, want)
	}
	if want := []string{"c"}; !reflect.DeepEqual(selected[1].NewlyCovered, want) {
		t.Errorf("selected[1].NewlyCovered = %v, want %v (b already covered by the first pick)", selected[1].NewlyCovered, want)
	}
}
