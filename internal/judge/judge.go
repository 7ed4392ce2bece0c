// Package judge scores a project on the six survival levers, either by asking
// a language model or, in demo mode, by synthesizing plausible scores locally.
package judge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"
	"survival-index/internal/port"
	"survival-index/internal/scoring"
)

// Judge 实现了 port.Evaluator 接口
type Judge struct {
	model   port.ModelClient
	metrics port.MetricsCollector
	synth   *Synthesizer
	demo    bool
	nowFunc func() time.Time
}

type Option func(*Judge)

// WithSynthesizer 替换演示模式的评分生成器，测试中用来固定随机种子
func WithSynthesizer(s *Synthesizer) Option {
	return func(j *Judge) {
		if s != nil {
			j.synth = s
		}
	}
}

// WithClock 便于测试注入当前时间
func WithClock(now func() time.Time) Option {
	return func(j *Judge) {
		if now != nil {
			j.nowFunc = now
		}
	}
}

// New 创建评委。apiKey 等于 DemoModeKey 时进入演示模式，此时 model 可以为 nil。
// metrics 为 nil 时跳过仓库指标采集。
func New(apiKey string, model port.ModelClient, metrics port.MetricsCollector, opts ...Option) *Judge {
	j := &Judge{
		model:   model,
		metrics: metrics,
		synth:   NewSynthesizer(nil),
		demo:    IsDemoKey(apiKey),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// IsDemoKey 判断凭证是否为演示模式哨兵值
func IsDemoKey(apiKey string) bool {
	return apiKey == DemoModeKey
}

// DemoMode 是否运行在演示模式
func (j *Judge) DemoMode() bool {
	return j.demo
}

// ModelName 写入评分记录的模型标识
func (j *Judge) ModelName() string {
	if j.demo || j.model == nil {
		return DemoModelName
	}
	return j.model.ModelName()
}

// Evaluate 采集指标、打分、校验并汇总为 EvaluationResult。
// 模型调用、解析或校验失败都返回 EVALUATION_ERROR，原因保留在错误链中。
func (j *Judge) Evaluate(ctx context.Context, p domain.Project) (*domain.EvaluationResult, error) {
	ctx = logging.WithAttrs(ctx, slog.Uint64("project_id", uint64(p.ID)), slog.String("project", p.Name))
	logging.Info(ctx, "AI judge evaluating project", slog.Bool("demo", j.demo))

	var metrics *domain.ExternalMetrics
	if p.GithubURL != "" && j.metrics != nil {
		metrics = j.metrics.FetchMetrics(ctx, p.GithubURL)
	}

	raw, err := j.score(ctx, p, metrics)
	if err != nil {
		logging.Error(ctx, "AI judge evaluation failed", slog.Any("error", err))
		return nil, common.EvaluationError("AI judge evaluation failed", err)
	}

	if err := validate(raw); err != nil {
		logging.Error(ctx, "AI judge returned invalid scores", slog.Any("error", err))
		return nil, common.EvaluationError("AI judge evaluation failed", err)
	}

	weighted, err := scoring.WeightedScore(raw.Scores)
	if err != nil {
		return nil, common.EvaluationError("AI judge evaluation failed", err)
	}
	// 等级基于保留两位小数后的分数，保证与落库值一致
	survival := scoring.Round(weighted, 2)

	return &domain.EvaluationResult{
		Scores:        raw.Scores,
		SurvivalScore: survival,
		Tier:          scoring.TierFor(survival),
		Confidence:    raw.Confidence,
		Reasoning:     raw.Reasoning,
		Suggestions:   raw.Suggestions,
		Model:         j.ModelName(),
		Metrics:       metrics,
		AnalyzedAt:    j.nowFunc().UTC(),
	}, nil
}

func (j *Judge) score(ctx context.Context, p domain.Project, metrics *domain.ExternalMetrics) (*domain.JudgeResult, error) {
	if j.demo {
		logging.Debug(ctx, "demo mode, using simulated scores")
		return j.synth.Synthesize(p, metrics), nil
	}
	if j.model == nil {
		return nil, common.InvocationError("no model client configured", errors.New("missing model client"))
	}

	text, err := j.model.Complete(ctx, BuildPrompt(p, metrics))
	if err != nil {
		if common.HasCode(err, common.ErrCodeInvocation) {
			return nil, err
		}
		return nil, common.InvocationError("model call failed", err)
	}

	res, err := Parse(text)
	if err != nil {
		logging.Warn(ctx, "unparseable model response", slog.Int("length", len(text)))
		return nil, err
	}
	return res, nil
}

func validate(r *domain.JudgeResult) error {
	if err := r.Scores.Validate(); err != nil {
		return common.WrapError(common.ErrCodeValidation, "lever score out of range", err)
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return common.Validation("confidence must be between 0 and 1, got %s", fmt.Sprint(r.Confidence))
	}
	return nil
}
