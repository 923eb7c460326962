package formio

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitrdm/formscope/pkg/formscope"
)

// styles is a small set of named lipgloss styles reused across the
// renderer rather than building ad hoc styles inline at each call
// site.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#101F38")).Bold(true)
	deadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d6dae0"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderTestPlan produces a human-readable report: a coverage summary
// followed by one block per scenario listing every visible question's
// chosen answer.
func RenderTestPlan(plan *formscope.TestPlan) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s — test plan", plan.Form.Name)))
	b.WriteString("\n")
	summary := fmt.Sprintf(
		"%d/%d reachable questions covered (%.1f%%), %d total, %d dead",
		plan.Summary.CoveredQuestions, plan.Summary.ReachableQuestions, plan.Summary.CoveragePercent,
		plan.Summary.TotalQuestions, len(plan.Summary.DeadQuestions),
	)
	b.WriteString(summary)
	b.WriteString("\n")
	if plan.Partial {
		b.WriteString(mutedStyle.Render("(partial: deadline or cancellation cut Phase 2/3 short; coverage and dead questions may be incomplete)"))
		b.WriteString("\n")
	}
	for _, id := range plan.Summary.DeadQuestions {
		b.WriteString(deadStyle.Render(fmt.Sprintf("dead: %s", id)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, sc := range plan.Scenarios {
		var body strings.Builder
		fmt.Fprintf(&body, "%s\n", labelStyle.Render(fmt.Sprintf("Scenario %d (%s)", i+1, sc.ID)))
		for _, id := range sc.VisibleQuestions(plan.Form) {
			q, _ := plan.Form.ByID(id)
			fmt.Fprintf(&body, "  %s: %s\n", q.Label, sc.AnsweredChoice(plan.Model, id))
		}
		if len(sc.NewlyCovered) > 0 {
			fmt.Fprintf(&body, "  %s\n", mutedStyle.Render(fmt.Sprintf("newly covers: %s", strings.Join(sc.NewlyCovered, ", "))))
		}
		b.WriteString(boxStyle.Render(strings.TrimRight(body.String(), "\n")))
		b.WriteString("\n")
	}

	return b.String()
}
