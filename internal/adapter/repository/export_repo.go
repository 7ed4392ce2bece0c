package repository

import (
	"context"

	"survival-index/internal/domain"
)

func (s *Store) ExportProjects(ctx context.Context) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := s.db.WithContext(ctx).Order("id ASC").Find(&projects).Error
	return projects, dbError(err, "导出项目失败")
}

func (s *Store) ExportAIRatings(ctx context.Context) ([]domain.AIRatingExport, error) {
	ratings := []domain.AIRatingExport{}
	err := s.db.WithContext(ctx).
		Model(&domain.AIRating{}).
		Select("ai_ratings.*, projects.name AS project_name").
		Joins("JOIN projects ON projects.id = ai_ratings.project_id").
		Order("ai_ratings.id ASC").
		Scan(&ratings).Error
	return ratings, dbError(err, "导出 AI 评分失败")
}

func (s *Store) ExportUserRatings(ctx context.Context) ([]domain.UserRatingExport, error) {
	ratings := []domain.UserRatingExport{}
	err := s.db.WithContext(ctx).
		Model(&domain.UserRating{}).
		Select("user_ratings.*, projects.name AS project_name").
		Joins("JOIN projects ON projects.id = user_ratings.project_id").
		Order("user_ratings.id ASC").
		Scan(&ratings).Error
	return ratings, dbError(err, "导出社区评分失败")
}

// ExportPendingSubmissions 最新的在前
func (s *Store) ExportPendingSubmissions(ctx context.Context) ([]domain.Submission, error) {
	subs := []domain.Submission{}
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.SubmissionPending).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, dbError(err, "导出投稿失败")
}

func (s *Store) ExportStats(ctx context.Context) (*domain.ExportStats, error) {
	var stats domain.ExportStats
	db := s.db.WithContext(ctx)

	counts := []struct {
		model any
		dest  *int64
		where []any
	}{
		{&domain.Project{}, &stats.Projects, nil},
		{&domain.AIRating{}, &stats.AIRatings, nil},
		{&domain.UserRating{}, &stats.CommunityRatings, nil},
		{&domain.Submission{}, &stats.PendingSubmissions, []any{"status = ?", domain.SubmissionPending}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, dbError(err, "统计导出数据失败")
		}
	}
	return &stats, nil
}
