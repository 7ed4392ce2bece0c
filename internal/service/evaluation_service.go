package service

import (
	"context"
	"log/slog"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"
	"survival-index/internal/port"
)

const DefaultStaleDays = 30

// EvaluationService 评估项目并保存 AI 评分
type EvaluationService struct {
	projects    port.ProjectRepository
	ratings     port.RatingRepository
	judge       port.Evaluator
	notifier    port.Notifier
	concurrency int
	timeout     time.Duration
	nowFunc     func() time.Time
}

type EvaluationOption func(*EvaluationService)

// WithConcurrency 批量评估的最大并发数，默认 1 (顺序执行)
func WithConcurrency(n int) EvaluationOption {
	return func(s *EvaluationService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTimeout 单个项目评估的超时时间，0 表示不限制
func WithTimeout(d time.Duration) EvaluationOption {
	return func(s *EvaluationService) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithNotifier 重新评估完成后推送摘要
func WithNotifier(n port.Notifier) EvaluationOption {
	return func(s *EvaluationService) {
		s.notifier = n
	}
}

func WithEvaluationClock(now func() time.Time) EvaluationOption {
	return func(s *EvaluationService) {
		if now != nil {
			s.nowFunc = now
		}
	}
}

func NewEvaluationService(projects port.ProjectRepository, ratings port.RatingRepository, judge port.Evaluator, opts ...EvaluationOption) *EvaluationService {
	s := &EvaluationService{
		projects:    projects,
		ratings:     ratings,
		judge:       judge,
		concurrency: 1,
		timeout:     60 * time.Second,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateAndStore 评估单个项目并覆盖保存评分。评估失败时已有评分保持不变
func (s *EvaluationService) EvaluateAndStore(ctx context.Context, projectID uint) (*domain.EvaluationOutcome, error) {
	ctx = logging.WithAttrs(ctx, slog.Uint64("project_id", uint64(projectID)))

	project, err := s.projects.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	evalCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.judge.Evaluate(evalCtx, *project)
	if err != nil {
		return nil, err
	}

	rating := result.ToRating(project.ID)
	if err := s.ratings.UpsertAIRating(ctx, rating); err != nil {
		return nil, err
	}
	project.AIRating = rating

	logging.Info(ctx, "project evaluated",
		slog.Float64("survival_score", result.SurvivalScore),
		slog.String("tier", string(result.Tier)),
	)
	return &domain.EvaluationOutcome{
		Project:    project,
		AIRating:   rating,
		Evaluation: result,
	}, nil
}

// BatchEvaluate 逐个评估，单个失败只记录到 Failed，不影响其他项目。
// Successful 和 Failed 都保持输入顺序。
func (s *EvaluationService) BatchEvaluate(ctx context.Context, projectIDs []uint) *domain.BatchResult {
	logging.Info(ctx, "batch evaluation started",
		slog.Int("total", len(projectIDs)),
		slog.Int("concurrency", s.concurrency),
	)

	outcomes := make([]*domain.EvaluationOutcome, len(projectIDs))
	errs := make([]error, len(projectIDs))

	runPool(ctx, s.concurrency, len(projectIDs), func(ctx context.Context, i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return
		}
		outcomes[i], errs[i] = s.EvaluateAndStore(ctx, projectIDs[i])
	})

	result := &domain.BatchResult{
		Successful: []*domain.EvaluationOutcome{},
		Failed:     []domain.BatchFailure{},
	}
	for i, id := range projectIDs {
		if errs[i] != nil {
			logging.Warn(ctx, "project evaluation failed", slog.Uint64("project_id", uint64(id)), slog.Any("error", errs[i]))
			result.Failed = append(result.Failed, domain.BatchFailure{ProjectID: id, Error: common.Describe(errs[i])})
			continue
		}
		result.Successful = append(result.Successful, outcomes[i])
	}
	result.Stats = domain.BatchStats{
		Total:      len(projectIDs),
		Successful: len(result.Successful),
		Failed:     len(result.Failed),
	}

	logging.Info(ctx, "batch evaluation finished",
		slog.Int("successful", result.Stats.Successful),
		slog.Int("failed", result.Stats.Failed),
	)
	return result
}

// ReevaluateStale 评估从未评分或评分超过 daysOld 天的项目，daysOld <= 0 时取 30
func (s *EvaluationService) ReevaluateStale(ctx context.Context, daysOld int) (*domain.BatchResult, error) {
	if daysOld <= 0 {
		daysOld = DefaultStaleDays
	}
	cutoff := s.nowFunc().UTC().AddDate(0, 0, -daysOld)

	ids, err := s.projects.FindProjectsNeedingEvaluation(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	logging.Info(ctx, "found projects needing re-evaluation", slog.Int("count", len(ids)), slog.Int("days_old", daysOld))

	result := s.BatchEvaluate(ctx, ids)

	if s.notifier != nil && result.Stats.Total > 0 {
		if err := s.notifier.NotifyBatch(ctx, result); err != nil {
			logging.Warn(ctx, "batch notification failed", slog.Any("error", err))
		}
	}
	return result, nil
}
