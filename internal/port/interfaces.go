package port

import (
	"context"
	"time"

	"survival-index/internal/domain"
)

// ModelClient (评委): 把 prompt 发给大模型，返回原始文本
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// ModelName 写入评分记录的模型标识
	ModelName() string
}

// MetricsCollector (侦察兵): 去代码托管平台拉取仓库指标
// 任何失败都返回 nil，绝不让评估流程中断
type MetricsCollector interface {
	FetchMetrics(ctx context.Context, repoURL string) *domain.ExternalMetrics
}

// Evaluator (鉴定师): 对单个项目给出完整评估
type Evaluator interface {
	Evaluate(ctx context.Context, project domain.Project) (*domain.EvaluationResult, error)
}

// Notifier (信使): 批量评估完成后推送摘要
type Notifier interface {
	NotifyBatch(ctx context.Context, result *domain.BatchResult) error
}

// ProjectRepository 项目的存储与查询
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *domain.Project) error
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id uint) error
	FindProjectByID(ctx context.Context, id uint) (*domain.Project, error)
	ProjectNameExists(ctx context.Context, name string) (bool, error)
	ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int64, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.Project, error)
	// FindProjectsNeedingEvaluation 没有评分或评分早于 cutoff 的项目 ID
	FindProjectsNeedingEvaluation(ctx context.Context, cutoff time.Time) ([]uint, error)
}

// RatingRepository AI 评分与社区评分
type RatingRepository interface {
	// UpsertAIRating 以 projectId 为键原子地创建或整体替换
	UpsertAIRating(ctx context.Context, r *domain.AIRating) error
	CreateUserRating(ctx context.Context, r *domain.UserRating) error
	ListUserRatings(ctx context.Context, projectID uint) ([]domain.UserRating, error)
	AverageUserRatings(ctx context.Context, projectID uint) (*domain.RatingAverages, error)
}

// SubmissionRepository 投稿审核流程
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *domain.Submission) error
	FindSubmissionByID(ctx context.Context, id uint) (*domain.Submission, error)
	PendingSubmissionExists(ctx context.Context, name string) (bool, error)
	ListSubmissions(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]domain.Submission, int64, error)
	CountPendingSubmissions(ctx context.Context) (int64, error)
	// ApproveSubmission 在同一事务中创建项目并回写投稿状态
	ApproveSubmission(ctx context.Context, s *domain.Submission) (*domain.Project, error)
	UpdateSubmission(ctx context.Context, s *domain.Submission) error
	DeleteSubmission(ctx context.Context, id uint) error
}

// UserRepository 账号与会话
type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateSession(ctx context.Context, s *domain.Session) error
	FindSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID uint) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// ExportSource 导出所需的只读查询
type ExportSource interface {
	ExportProjects(ctx context.Context) ([]domain.Project, error)
	ExportAIRatings(ctx context.Context) ([]domain.AIRatingExport, error)
	ExportUserRatings(ctx context.Context) ([]domain.UserRatingExport, error)
	ExportPendingSubmissions(ctx context.Context) ([]domain.Submission, error)
	ExportStats(ctx context.Context) (*domain.ExportStats, error)
}
