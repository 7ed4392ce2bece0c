package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/service"

	"github.com/spf13/cobra"
)

var exportTargets = []string{"all", "projects", "ai-ratings", "community-ratings", "submissions"}

func (c *cli) exportCmd() *cobra.Command {
	var (
		what  string
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset as JSONL files under export.dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(exportTargets, what) {
				return common.InvalidInput("--what must be one of %s", strings.Join(exportTargets, ", "))
			}
			a, err := newApp(cmd.Context(), c.cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if stats {
				s, err := a.export.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "📊 projects %d, ai ratings %d, community ratings %d, pending submissions %d\n",
					s.Projects, s.AIRatings, s.CommunityRatings, s.PendingSubmissions)
				return nil
			}

			files, err := runExport(cmd.Context(), a.export, what)
			if err != nil {
				return err
			}
			printExports(out, files)
			return nil
		},
	}
	cmd.Flags().StringVar(&what, "what", "all", "dataset to export: "+strings.Join(exportTargets, ", "))
	cmd.Flags().BoolVar(&stats, "stats", false, "print row counts instead of exporting")
	return cmd
}

func runExport(ctx context.Context, svc *service.ExportService, what string) ([]domain.ExportFile, error) {
	var fn func(context.Context) (domain.ExportFile, error)
	switch what {
	case "projects":
		fn = svc.ExportProjects
	case "ai-ratings":
		fn = svc.ExportAIRatings
	case "community-ratings":
		fn = svc.ExportCommunityRatings
	case "submissions":
		fn = svc.ExportSubmissions
	default:
		res, err := svc.ExportAll(ctx)
		if err != nil {
			return nil, err
		}
		return res.Exports, nil
	}

	f, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	return []domain.ExportFile{f}, nil
}

func printExports(w io.Writer, files []domain.ExportFile) {
	for _, f := range files {
		fmt.Fprintf(w, "📁 %s (%d records)\n", f.File, f.Count)
	}
}
