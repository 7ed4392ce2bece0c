package main

import (
	"survival-index/internal/config"
	"survival-index/internal/logging"

	"github.com/spf13/cobra"
)

// cli 在子命令之间共享加载好的配置
type cli struct {
	configFile string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "survival-index",
		Short:         "SurvivalIndex AI judge backend",
		Long:          "Scores software projects on six survival levers, serves the leaderboard API and exports the dataset.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 只打印帮助时不需要配置
			if !cmd.HasParent() {
				return nil
			}
			// 先用默认级别，配置里的日志设置加载后再覆盖
			logging.Init("info", "text", cmd.ErrOrStderr())
			cfg, err := config.Load(cmd.Context(), c.configFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			logging.Init(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./configs/config.yaml or ./config.yaml)")

	rootCmd.AddCommand(
		c.serveCmd(),
		c.evaluateCmd(),
		c.batchCmd(),
		c.reevaluateCmd(),
		c.scheduleCmd(),
		c.exportCmd(),
		c.seedCmd(),
		c.createUserCmd(),
	)
	return rootCmd
}
