package main

import (
	"fmt"
	"io"
	"strconv"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/service"

	"github.com/spf13/cobra"
)

func (c *cli) evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <project-id>",
		Short: "Evaluate one project with the AI judge and store the rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.evaluation.EvaluateAndStore(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}
}

func (c *cli) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <project-id>...",
		Short: "Evaluate several projects, failures do not stop the batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			printBatch(cmd.OutOrStdout(), a.evaluation.BatchEvaluate(cmd.Context(), ids))
			return nil
		},
	}
}

func (c *cli) reevaluateCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "reevaluate-stale",
		Short: "Re-evaluate projects whose rating is missing or older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = c.cfg.Evaluation.StaleDays
			}
			a, err := newApp(cmd.Context(), c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.evaluation.ReevaluateStale(cmd.Context(), days)
			if err != nil {
				return err
			}
			printBatch(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", service.DefaultStaleDays, "age in days after which a rating is stale (default: evaluation.stale_days)")
	return cmd
}

// parseIDs 项目 ID 必须是正整数
func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil || id == 0 {
			return nil, common.InvalidInput("invalid project id %q", arg)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func printOutcome(w io.Writer, o *domain.EvaluationOutcome) {
	if o == nil || o.Project == nil || o.AIRating == nil {
		return
	}
	fmt.Fprintf(w, "✅ %s: %.2f (%s) [%s]\n", o.Project.Name, o.AIRating.SurvivalScore, o.AIRating.Tier, o.AIRating.Model)
}

func printBatch(w io.Writer, res *domain.BatchResult) {
	if res == nil {
		return
	}
	for _, o := range res.Successful {
		printOutcome(w, o)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "❌ project %d: %s\n", f.ProjectID, f.Error)
	}
	fmt.Fprintf(w, "📊 total %d, successful %d, failed %d\n", res.Stats.Total, res.Stats.Successful, res.Stats.Failed)
}
