package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitrdm/formscope/internal/formio"
	"github.com/gitrdm/formscope/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-synthesize a form's test plan whenever its definition changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		ctx := logging.ToContext(cmd.Context(), newLogger())
		log := logging.FromContext(ctx)

		onChange := func(path string) {
			if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return
			}
			log.Infow("form changed, re-synthesizing", "path", path)
			_, plan, err := runPipeline(ctx, path)
			if err != nil {
				log.Errorw("synthesis failed", "path", path, "error", err)
				return
			}
			fmt.Println(formio.RenderTestPlan(plan))
		}

		if err := formio.Watch(ctx, dir, onChange); err != nil {
			return fmt.Errorf("watching %q: %w", dir, err)
		}
		log.Infow("watching for changes", "dir", dir)
		<-ctx.Done()
		return nil
	},
}
