package main

import (
	"encoding/json"
	"fmt"
	"os"

	"survival-index/internal/adapter/github"
	"survival-index/internal/domain"
	"survival-index/internal/judge"
	"survival-index/internal/logging"
	"survival-index/internal/scoring"

	"github.com/spf13/cobra"
)

// 调试工具：不连数据库，打印评委 prompt 和一次演示评分
func main() {
	var (
		p          domain.Project
		typ, cat   string
		year       int
		seed       uint64
		promptOnly bool
	)

	cmd := &cobra.Command{
		Use:           "debug",
		Short:         "Print the judge prompt and a demo evaluation for an ad-hoc project",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init("debug", "text", cmd.ErrOrStderr())
			ctx := cmd.Context()

			var err error
			if p.Type, err = domain.ParseProjectType(typ); err != nil {
				return err
			}
			if p.Category, err = domain.ParseCategory(cat); err != nil {
				return err
			}
			if year > 0 {
				p.YearCreated = &year
			}

			// 有 GITHUB_TOKEN 时采集真实指标
			collector := github.NewCollector(os.Getenv("GITHUB_TOKEN"))
			var metrics *domain.ExternalMetrics
			if p.GithubURL != "" {
				fmt.Println("📥 fetching repository metrics...")
				metrics = collector.FetchMetrics(ctx, p.GithubURL)
			}

			fmt.Println("================ [ prompt ] ================")
			fmt.Println(judge.BuildPrompt(p, metrics))
			if promptOnly {
				return nil
			}

			j := judge.New(judge.DemoModeKey, nil, collector, judge.WithSynthesizer(judge.NewSeededSynthesizer(seed)))
			res, err := j.Evaluate(ctx, p)
			if err != nil {
				return err
			}

			fmt.Println("================ [ demo evaluation ] ================")
			for _, l := range domain.Levers {
				fmt.Printf("%-28s %5.2f  (weight %.0f%%)\n", l.Humanize(), res.Scores.Get(l), scoring.Weight(l)*100)
			}
			fmt.Printf("\n🏆 survival score %.2f, tier %s, confidence %.2f\n\n", res.SurvivalScore, res.Tier, res.Confidence)

			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "Redis", "project name")
	f.StringVar(&typ, "type", string(domain.ProjectTypeOpenSource), "open-source, saas or hybrid")
	f.StringVar(&cat, "category", string(domain.CategoryDatabases), "category from the closed list")
	f.StringVar(&p.Description, "description", "In-memory data structure store", "short description")
	f.StringVar(&p.URL, "url", "", "homepage")
	f.StringVar(&p.GithubURL, "github", "", "GitHub repository URL")
	f.StringVar(&p.Tags, "tags", "", "comma separated tags")
	f.IntVar(&year, "year", 0, "year created")
	f.Uint64Var(&seed, "seed", 1, "seed for the demo score generator")
	f.BoolVar(&promptOnly, "prompt-only", false, "only print the prompt")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
