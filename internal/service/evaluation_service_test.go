package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"survival-index/internal/adapter/repository"
	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testResult(score float64, tier domain.Tier) *domain.EvaluationResult {
	return &domain.EvaluationResult{
		Scores:        domain.LeverScores{InsightCompression: score, SubstrateEfficiency: score, BroadUtility: score, Awareness: score, AgentFriction: score, HumanCoefficient: score},
		SurvivalScore: score,
		Tier:          tier,
		Confidence:    0.85,
		Reasoning:     domain.Reasoning{Overall: "ok"},
		Model:         "claude-test",
		AnalyzedAt:    testNow,
	}
}

func TestEvaluationService_EvaluateAndStore(t *testing.T) {
	projects := new(MockProjectRepository)
	ratings := new(MockRatingRepository)
	evaluator := new(MockEvaluator)

	project := &domain.Project{ID: 3, Name: "Redis"}
	projects.On("FindProjectByID", mock.Anything, uint(3)).Return(project, nil)
	evaluator.On("Evaluate", mock.Anything, *project).Return(testResult(8.22, domain.TierA), nil)
	ratings.On("UpsertAIRating", mock.Anything, mock.MatchedBy(func(r *domain.AIRating) bool {
		return r.ProjectID == 3 && r.SurvivalScore == 8.22 && r.Tier == domain.TierA && r.Model == "claude-test"
	})).Return(nil)

	svc := NewEvaluationService(projects, ratings, evaluator)
	outcome, err := svc.EvaluateAndStore(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "Redis", outcome.Project.Name)
	assert.Same(t, outcome.AIRating, outcome.Project.AIRating)
	assert.Equal(t, 8.22, outcome.Evaluation.SurvivalScore)
	projects.AssertExpectations(t)
	ratings.AssertExpectations(t)
	evaluator.AssertExpectations(t)
}

func TestEvaluationService_EvaluateAndStore_NotFound(t *testing.T) {
	projects := new(MockProjectRepository)
	ratings := new(MockRatingRepository)
	evaluator := new(MockEvaluator)
	projects.On("FindProjectByID", mock.Anything, uint(99)).Return(nil, common.NotFound("project %d not found", 99))

	_, err := NewEvaluationService(projects, ratings, evaluator).EvaluateAndStore(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))
	evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
	ratings.AssertNotCalled(t, "UpsertAIRating", mock.Anything, mock.Anything)
}

func TestEvaluationService_EvaluateAndStore_JudgeFailureKeepsRating(t *testing.T) {
	projects := new(MockProjectRepository)
	ratings := new(MockRatingRepository)
	evaluator := new(MockEvaluator)
	projects.On("FindProjectByID", mock.Anything, uint(1)).Return(&domain.Project{ID: 1}, nil)
	evaluator.On("Evaluate", mock.Anything, mock.Anything).
		Return(nil, common.EvaluationError("AI judge evaluation failed", errors.New("boom")))

	_, err := NewEvaluationService(projects, ratings, evaluator).EvaluateAndStore(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeEvaluation))
	ratings.AssertNotCalled(t, "UpsertAIRating", mock.Anything, mock.Anything)
}

func TestEvaluationService_EvaluateAndStore_AppliesTimeout(t *testing.T) {
	projects := new(MockProjectRepository)
	ratings := new(MockRatingRepository)
	evaluator := new(MockEvaluator)
	projects.On("FindProjectByID", mock.Anything, uint(1)).Return(&domain.Project{ID: 1}, nil)
	evaluator.On("Evaluate", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 5*time.Second
	}), mock.Anything).Return(testResult(7, domain.TierB), nil)
	ratings.On("UpsertAIRating", mock.Anything, mock.Anything).Return(nil)

	svc := NewEvaluationService(projects, ratings, evaluator, WithTimeout(5*time.Second))
	_, err := svc.EvaluateAndStore(context.Background(), 1)

	require.NoError(t, err)
	evaluator.AssertExpectations(t)
}

func TestEvaluationService_BatchEvaluate(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("并发数%d", workers), func(t *testing.T) {
			projects := new(MockProjectRepository)
			ratings := new(MockRatingRepository)
			evaluator := new(MockEvaluator)

			for _, id := range []uint{1, 3, 4} {
				projects.On("FindProjectByID", mock.Anything, id).Return(&domain.Project{ID: id}, nil)
			}
			projects.On("FindProjectByID", mock.Anything, uint(2)).Return(nil, common.NotFound("project %d not found", 2))
			evaluator.On("Evaluate", mock.Anything, domain.Project{ID: 4}).
				Return(nil, common.EvaluationError("AI judge evaluation failed", common.ParseError("no JSON object found", nil)))
			evaluator.On("Evaluate", mock.Anything, mock.Anything).Return(testResult(7.5, domain.TierB), nil)
			ratings.On("UpsertAIRating", mock.Anything, mock.Anything).Return(nil)

			svc := NewEvaluationService(projects, ratings, evaluator, WithConcurrency(workers))
			result := svc.BatchEvaluate(context.Background(), []uint{1, 2, 3, 4})

			assert.Equal(t, domain.BatchStats{Total: 4, Successful: 2, Failed: 2}, result.Stats)
			require.Len(t, result.Successful, 2)
			assert.Equal(t, uint(1), result.Successful[0].Project.ID)
			assert.Equal(t, uint(3), result.Successful[1].Project.ID)
			require.Len(t, result.Failed, 2)
			assert.Equal(t, domain.BatchFailure{ProjectID: 2, Error: "project 2 not found"}, result.Failed[0])
			assert.Equal(t, uint(4), result.Failed[1].ProjectID)
			assert.Equal(t, "AI judge evaluation failed: no JSON object found", result.Failed[1].Error)
		})
	}
}

func TestEvaluationService_BatchEvaluate_Empty(t *testing.T) {
	svc := NewEvaluationService(new(MockProjectRepository), new(MockRatingRepository), new(MockEvaluator))
	result := svc.BatchEvaluate(context.Background(), nil)

	assert.Equal(t, domain.BatchStats{}, result.Stats)
	assert.NotNil(t, result.Successful)
	assert.NotNil(t, result.Failed)
}

func TestEvaluationService_BatchEvaluate_Cancelled(t *testing.T) {
	projects := new(MockProjectRepository)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewEvaluationService(projects, new(MockRatingRepository), new(MockEvaluator))
	result := svc.BatchEvaluate(ctx, []uint{1, 2})

	assert.Equal(t, 2, result.Stats.Failed)
	projects.AssertNotCalled(t, "FindProjectByID", mock.Anything, mock.Anything)
}

func TestEvaluationService_ReevaluateStale(t *testing.T) {
	tests := []struct {
		name       string
		daysOld    int
		wantCutoff time.Time
	}{
		{name: "默认 30 天", daysOld: 0, wantCutoff: testNow.AddDate(0, 0, -30)},
		{name: "负数取默认", daysOld: -5, wantCutoff: testNow.AddDate(0, 0, -30)},
		{name: "自定义 7 天", daysOld: 7, wantCutoff: testNow.AddDate(0, 0, -7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			ratings := new(MockRatingRepository)
			evaluator := new(MockEvaluator)
			notifier := new(MockNotifier)

			projects.On("FindProjectsNeedingEvaluation", mock.Anything, tt.wantCutoff).Return([]uint{5}, nil)
			projects.On("FindProjectByID", mock.Anything, uint(5)).Return(&domain.Project{ID: 5}, nil)
			evaluator.On("Evaluate", mock.Anything, mock.Anything).Return(testResult(6.1, domain.TierC), nil)
			ratings.On("UpsertAIRating", mock.Anything, mock.Anything).Return(nil)
			notifier.On("NotifyBatch", mock.Anything, mock.Anything).Return(errors.New("webhook down"))

			svc := NewEvaluationService(projects, ratings, evaluator,
				WithNotifier(notifier),
				WithEvaluationClock(func() time.Time { return testNow }),
			)
			result, err := svc.ReevaluateStale(context.Background(), tt.daysOld)

			require.NoError(t, err)
			assert.Equal(t, 1, result.Stats.Successful)
			projects.AssertExpectations(t)
			notifier.AssertNumberOfCalls(t, "NotifyBatch", 1)
		})
	}
}

func TestEvaluationService_ReevaluateStale_NothingToDo(t *testing.T) {
	projects := new(MockProjectRepository)
	notifier := new(MockNotifier)
	projects.On("FindProjectsNeedingEvaluation", mock.Anything, mock.Anything).Return([]uint{}, nil)

	svc := NewEvaluationService(projects, new(MockRatingRepository), new(MockEvaluator), WithNotifier(notifier))
	result, err := svc.ReevaluateStale(context.Background(), 30)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.Total)
	notifier.AssertNotCalled(t, "NotifyBatch", mock.Anything, mock.Anything)
}

func TestRunPool_VisitsEveryIndexOnce(t *testing.T) {
	var calls [20]int32
	runPool(context.Background(), 4, len(calls), func(_ context.Context, i int) {
		atomic.AddInt32(&calls[i], 1)
	})
	for i := range calls {
		assert.Equal(t, int32(1), calls[i], "index %d", i)
	}
}

// 演示模式端到端: 真实的 sqlite 存储 + 本地评分生成器
func TestEvaluationService_DemoModeWithSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := repository.Open(repository.DriverSQLite, filepath.Join(t.TempDir(), "demo.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	year := 1996
	pg := &domain.Project{Name: "PostgreSQL", Type: domain.ProjectTypeOpenSource, Category: domain.CategoryDatabases, Description: "RDBMS", YearCreated: &year}
	other := &domain.Project{Name: "Acme CRM", Type: domain.ProjectTypeSaaS, Category: domain.CategoryCommerce, Description: "CRM"}
	require.NoError(t, store.CreateProject(ctx, pg))
	require.NoError(t, store.CreateProject(ctx, other))

	j := judge.New(judge.DemoModeKey, nil, nil, judge.WithSynthesizer(judge.NewSeededSynthesizer(42)))
	svc := NewEvaluationService(store, store, j, WithConcurrency(2))

	result, err := svc.ReevaluateStale(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStats{Total: 2, Successful: 2, Failed: 0}, result.Stats)

	got, err := store.FindProjectByID(ctx, pg.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AIRating)
	assert.Equal(t, judge.DemoModelName, got.AIRating.Model)
	assert.GreaterOrEqual(t, got.AIRating.Awareness, 8.5)

	// 刚评估过，不再需要重新评估
	ids, err := store.FindProjectsNeedingEvaluation(ctx, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, ids)

	// 重新评估同一项目只会覆盖，不会新增
	_, err = svc.EvaluateAndStore(ctx, pg.ID)
	require.NoError(t, err)
	stats, err := store.ExportStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.AIRatings)
}
