package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/formscope/internal/formio"
	"github.com/gitrdm/formscope/internal/logging"
	"github.com/gitrdm/formscope/internal/metrics"
	"github.com/gitrdm/formscope/pkg/formscope"
)

var planCmd = &cobra.Command{
	Use:   "plan [form.yaml]",
	Short: "Synthesize and print the minimized test plan for one form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, plan, err := runPipeline(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(formio.RenderTestPlan(plan))
		return nil
	},
}

// runPipeline runs Load -> Classify -> Synthesize for one form path,
// observing Prometheus metrics and logging along the way. It is the
// shared core plan, batch, and watch all call.
func runPipeline(ctx context.Context, path string) (*formscope.Form, *formscope.TestPlan, error) {
	log := newLogger()
	ctx = logging.ToContext(ctx, log)

	form, err := formio.Load(path)
	if err != nil {
		metrics.FormsProcessed.WithLabelValues("load_error").Inc()
		return nil, nil, fmt.Errorf("loading %q: %w", path, err)
	}
	metrics.QuestionsTotal.Observe(float64(len(form.Questions)))

	c, err := formscope.Classify(form)
	if err != nil {
		metrics.FormsProcessed.WithLabelValues("classify_error").Inc()
		return form, nil, fmt.Errorf("classifying %q: %w", path, err)
	}

	runCtx, cancel := formTimeout(ctx)
	defer cancel()

	plan, err := formscope.Synthesize(runCtx, c, newSolver())
	if err != nil {
		metrics.FormsProcessed.WithLabelValues("synthesize_error").Inc()
		return form, nil, fmt.Errorf("synthesizing %q: %w", path, err)
	}

	outcome := "ok"
	if plan.Partial {
		outcome = "partial"
	}
	metrics.FormsProcessed.WithLabelValues(outcome).Inc()
	metrics.ScenariosSynthesized.Observe(float64(len(plan.Scenarios)))
	metrics.DeadQuestions.Observe(float64(len(plan.Summary.DeadQuestions)))
	metrics.CoveragePercent.Observe(plan.Summary.CoveragePercent)

	log.Infow("plan synthesized", "form", path, "scenarios", len(plan.Scenarios), "partial", plan.Partial)
	return form, plan, nil
}
