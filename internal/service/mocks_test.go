package service

import (
	"context"
	"time"

	"survival-index/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) CreateProject(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectRepository) DeleteProject(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, id uint) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ProjectNameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int64, error) {
	args := m.Called(ctx, f)
	projects, _ := args.Get(0).([]domain.Project)
	return projects, args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) Leaderboard(ctx context.Context, limit int) ([]domain.Project, error) {
	args := m.Called(ctx, limit)
	projects, _ := args.Get(0).([]domain.Project)
	return projects, args.Error(1)
}

func (m *MockProjectRepository) FindProjectsNeedingEvaluation(ctx context.Context, cutoff time.Time) ([]uint, error) {
	args := m.Called(ctx, cutoff)
	ids, _ := args.Get(0).([]uint)
	return ids, args.Error(1)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) UpsertAIRating(ctx context.Context, r *domain.AIRating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRatingRepository) CreateUserRating(ctx context.Context, r *domain.UserRating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRatingRepository) ListUserRatings(ctx context.Context, projectID uint) ([]domain.UserRating, error) {
	args := m.Called(ctx, projectID)
	ratings, _ := args.Get(0).([]domain.UserRating)
	return ratings, args.Error(1)
}

func (m *MockRatingRepository) AverageUserRatings(ctx context.Context, projectID uint) (*domain.RatingAverages, error) {
	args := m.Called(ctx, projectID)
	avg, _ := args.Get(0).(*domain.RatingAverages)
	return avg, args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) CreateSubmission(ctx context.Context, s *domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) FindSubmissionByID(ctx context.Context, id uint) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	sub, _ := args.Get(0).(*domain.Submission)
	return sub, args.Error(1)
}

func (m *MockSubmissionRepository) PendingSubmissionExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) ListSubmissions(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]domain.Submission, int64, error) {
	args := m.Called(ctx, status, page, limit)
	subs, _ := args.Get(0).([]domain.Submission)
	return subs, args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) CountPendingSubmissions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) ApproveSubmission(ctx context.Context, s *domain.Submission) (*domain.Project, error) {
	args := m.Called(ctx, s)
	p, _ := args.Get(0).(*domain.Project)
	return p, args.Error(1)
}

func (m *MockSubmissionRepository) UpdateSubmission(ctx context.Context, s *domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) DeleteSubmission(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockUserRepository) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *MockUserRepository) DeleteSession(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockUserRepository) DeleteUserSessions(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, p domain.Project) (*domain.EvaluationResult, error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*domain.EvaluationResult)
	return res, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBatch(ctx context.Context, result *domain.BatchResult) error {
	return m.Called(ctx, result).Error(0)
}

type MockProjectEvaluator struct {
	mock.Mock
}

func (m *MockProjectEvaluator) EvaluateAndStore(ctx context.Context, projectID uint) (*domain.EvaluationOutcome, error) {
	args := m.Called(ctx, projectID)
	o, _ := args.Get(0).(*domain.EvaluationOutcome)
	return o, args.Error(1)
}
