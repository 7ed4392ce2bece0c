package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"
	"survival-index/internal/port"
)

// ProjectEvaluator 批准投稿后立即评估新项目
type ProjectEvaluator interface {
	EvaluateAndStore(ctx context.Context, projectID uint) (*domain.EvaluationOutcome, error)
}

type SubmissionPage struct {
	Data       []domain.Submission `json:"data"`
	Pagination domain.Pagination   `json:"pagination"`
}

// Review 管理员的审核意见
type Review struct {
	ReviewerID      uint
	Notes           string
	RejectionReason string
	// TriggerEvaluation 仅对批准有效
	TriggerEvaluation bool
}

// Approval 批准结果。评估失败不会撤销批准，错误写在 EvaluationError 里
type Approval struct {
	Submission      *domain.Submission        `json:"submission"`
	Project         *domain.Project           `json:"project"`
	Evaluation      *domain.EvaluationOutcome `json:"evaluation,omitempty"`
	EvaluationError string                    `json:"evaluationError,omitempty"`
}

type SubmissionService struct {
	projects    port.ProjectRepository
	submissions port.SubmissionRepository
	evaluator   ProjectEvaluator
	nowFunc     func() time.Time
}

// NewSubmissionService evaluator 为 nil 时忽略 TriggerEvaluation
func NewSubmissionService(projects port.ProjectRepository, submissions port.SubmissionRepository, evaluator ProjectEvaluator) *SubmissionService {
	return &SubmissionService{
		projects:    projects,
		submissions: submissions,
		evaluator:   evaluator,
		nowFunc:     time.Now,
	}
}

// Submit 同名项目已存在或已有同名待审核投稿时拒绝
func (s *SubmissionService) Submit(ctx context.Context, sub *domain.Submission) (*domain.Submission, error) {
	sub.Name = strings.TrimSpace(sub.Name)

	exists, err := s.projects.ProjectNameExists(ctx, sub.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Conflict("A project with this name already exists")
	}

	pending, err := s.submissions.PendingSubmissionExists(ctx, sub.Name)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, common.Conflict("A submission with this name is already pending review")
	}

	sub.ID = 0
	sub.Status = domain.SubmissionPending
	sub.ReviewedBy, sub.ReviewedAt, sub.ProjectID = nil, nil, nil
	sub.ReviewNotes, sub.RejectionReason = "", ""
	if sub.Logo == "" {
		sub.Logo = domain.DefaultLogo
	}

	if err := s.submissions.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	logging.Info(ctx, "project submitted", slog.Uint64("submission_id", uint64(sub.ID)), slog.String("name", sub.Name))
	return sub, nil
}

// List status 为空时不过滤
func (s *SubmissionService) List(ctx context.Context, status domain.SubmissionStatus, page, limit int) (*SubmissionPage, error) {
	page, limit = normalizePage(page, limit)
	subs, total, err := s.submissions.ListSubmissions(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	return &SubmissionPage{Data: subs, Pagination: domain.NewPagination(page, limit, total)}, nil
}

func (s *SubmissionService) PendingCount(ctx context.Context) (int64, error) {
	return s.submissions.CountPendingSubmissions(ctx)
}

func (s *SubmissionService) Get(ctx context.Context, id uint) (*domain.Submission, error) {
	return s.submissions.FindSubmissionByID(ctx, id)
}

// Approve 创建项目并关联到投稿。只有待审核的投稿可以批准
func (s *SubmissionService) Approve(ctx context.Context, id uint, review Review) (*Approval, error) {
	sub, err := s.pendingSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewer := review.ReviewerID
	sub.ReviewedBy = &reviewer
	sub.ReviewNotes = review.Notes

	project, err := s.submissions.ApproveSubmission(ctx, sub)
	if err != nil {
		return nil, err
	}
	logging.Info(ctx, "submission approved", slog.Uint64("submission_id", uint64(id)), slog.Uint64("project_id", uint64(project.ID)))

	approval := &Approval{Submission: sub, Project: project}
	if review.TriggerEvaluation && s.evaluator != nil {
		outcome, err := s.evaluator.EvaluateAndStore(ctx, project.ID)
		if err != nil {
			logging.Warn(ctx, "evaluation after approval failed", slog.Uint64("project_id", uint64(project.ID)), slog.Any("error", err))
			approval.EvaluationError = common.Describe(err)
		} else {
			approval.Evaluation = outcome
			approval.Project = outcome.Project
		}
	}
	return approval, nil
}

// Reject 必须给出拒绝理由
func (s *SubmissionService) Reject(ctx context.Context, id uint, review Review) (*domain.Submission, error) {
	sub, err := s.pendingSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(review.RejectionReason) == "" {
		return nil, common.Validation("Rejection reason is required")
	}

	now := s.nowFunc().UTC()
	reviewer := review.ReviewerID
	sub.Status = domain.SubmissionRejected
	sub.ReviewedBy = &reviewer
	sub.ReviewedAt = &now
	sub.RejectionReason = review.RejectionReason
	sub.ReviewNotes = review.Notes

	if err := s.submissions.UpdateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	logging.Info(ctx, "submission rejected", slog.Uint64("submission_id", uint64(id)))
	return sub, nil
}

func (s *SubmissionService) Delete(ctx context.Context, id uint) error {
	return s.submissions.DeleteSubmission(ctx, id)
}

func (s *SubmissionService) pendingSubmission(ctx context.Context, id uint) (*domain.Submission, error) {
	sub, err := s.submissions.FindSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsPending() {
		return nil, common.Validation("Submission has already been reviewed")
	}
	return sub, nil
}
