package main

import (
	"context"
	"log/slog"

	"survival-index/internal/adapter/anthropic"
	"survival-index/internal/adapter/export"
	"survival-index/internal/adapter/feishu"
	"survival-index/internal/adapter/gemini"
	"survival-index/internal/adapter/github"
	"survival-index/internal/adapter/httpapi"
	"survival-index/internal/adapter/repository"
	"survival-index/internal/common"
	"survival-index/internal/config"
	"survival-index/internal/judge"
	"survival-index/internal/logging"
	"survival-index/internal/port"
	"survival-index/internal/service"
)

// app 组装好的依赖。没有评委时 evaluation 为 nil
type app struct {
	cfg     config.Config
	store   *repository.Store
	judge   *judge.Judge
	closers []func() error

	projects    *service.ProjectService
	ratings     *service.RatingService
	submissions *service.SubmissionService
	evaluation  *service.EvaluationService
	auth        *service.AuthService
	export      *service.ExportService
}

// newApp withJudge 为 false 时不需要模型凭证，用于 seed、export 等离线命令
func newApp(ctx context.Context, cfg config.Config, withJudge bool) (*app, error) {
	store, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, store: store, closers: []func() error{store.Close}}

	a.projects = service.NewProjectService(store)
	a.ratings = service.NewRatingService(store, store)
	a.auth = service.NewAuthService(store, cfg.Auth.SessionTTL)
	a.export = service.NewExportService(store, export.NewWriter(cfg.Export.Dir))

	if !withJudge {
		a.submissions = service.NewSubmissionService(store, store, nil)
		return a, nil
	}

	j, closeModel, err := buildJudge(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if closeModel != nil {
		a.closers = append(a.closers, closeModel)
	}
	a.judge = j

	opts := []service.EvaluationOption{
		service.WithConcurrency(cfg.Evaluation.Concurrency),
		service.WithTimeout(cfg.Evaluation.Timeout),
	}
	if cfg.Notify.FeishuWebhook != "" {
		opts = append(opts, service.WithNotifier(feishu.NewNotifier(cfg.Notify.FeishuWebhook, cfg.Server.FrontendURL)))
	}
	a.evaluation = service.NewEvaluationService(store, store, j, opts...)
	a.submissions = service.NewSubmissionService(store, store, a.evaluation)
	return a, nil
}

// buildJudge 按 provider 选择模型客户端。返回的 close 可能为 nil
func buildJudge(ctx context.Context, cfg config.Config) (*judge.Judge, func() error, error) {
	var collector port.MetricsCollector = github.NewCollector(cfg.GitHub.Token)

	if cfg.DemoMode() {
		logging.Warn(ctx, "AI judge running in demo mode, scores are synthetic")
		return judge.New(cfg.Judge.APIKey, nil, collector), nil, nil
	}
	if cfg.Judge.APIKey == "" {
		return nil, nil, common.InvalidInput("judge.api_key is required (set it to %q for offline demo scoring)", judge.DemoModeKey)
	}

	switch cfg.Judge.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.Judge.APIKey, cfg.Judge.Model, cfg.Judge.MaxTokens)
		if err != nil {
			return nil, nil, err
		}
		logging.Info(ctx, "AI judge ready", slog.String("provider", config.ProviderGemini), slog.String("model", client.ModelName()))
		return judge.New(cfg.Judge.APIKey, client, collector), client.Close, nil
	default:
		client := anthropic.NewClient(cfg.Judge.APIKey, cfg.Judge.Model, cfg.Judge.MaxTokens)
		logging.Info(ctx, "AI judge ready", slog.String("provider", config.ProviderAnthropic), slog.String("model", client.ModelName()))
		return judge.New(cfg.Judge.APIKey, client, collector), nil, nil
	}
}

func (a *app) services() httpapi.Services {
	return httpapi.Services{
		Projects:    a.projects,
		Ratings:     a.ratings,
		Submissions: a.submissions,
		Evaluation:  a.evaluation,
		Auth:        a.auth,
		Export:      a.export,
	}
}

// Close 逆序释放资源
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("close failed", slog.Any("error", err))
		}
	}
}
