package repository

import (
	"context"

	"survival-index/internal/domain"

	"gorm.io/gorm/clause"
)

// UpsertAIRating 以 project_id 为冲突键，一条语句完成创建或整体替换
func (s *Store) UpsertAIRating(ctx context.Context, r *domain.AIRating) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			UpdateAll: true,
		}).
		Create(r).Error
	return dbError(err, "保存项目 %d 的 AI 评分失败", r.ProjectID)
}

func (s *Store) CreateUserRating(ctx context.Context, r *domain.UserRating) error {
	return dbError(s.db.WithContext(ctx).Create(r).Error, "保存项目 %d 的社区评分失败", r.ProjectID)
}

// ListUserRatings 最新的在前
func (s *Store) ListUserRatings(ctx context.Context, projectID uint) ([]domain.UserRating, error) {
	ratings := []domain.UserRating{}
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, dbError(err, "查询项目 %d 的社区评分失败", projectID)
	}
	return ratings, nil
}

// AverageUserRatings 没有评分时 Averages 为 nil
func (s *Store) AverageUserRatings(ctx context.Context, projectID uint) (*domain.RatingAverages, error) {
	var row struct {
		Count               int64
		InsightCompression  *float64
		SubstrateEfficiency *float64
		BroadUtility        *float64
		Awareness           *float64
		AgentFriction       *float64
		HumanCoefficient    *float64
	}
	err := s.db.WithContext(ctx).
		Model(&domain.UserRating{}).
		Select(`COUNT(*) AS count,
			AVG(insight_compression) AS insight_compression,
			AVG(substrate_efficiency) AS substrate_efficiency,
			AVG(broad_utility) AS broad_utility,
			AVG(awareness) AS awareness,
			AVG(agent_friction) AS agent_friction,
			AVG(human_coefficient) AS human_coefficient`).
		Where("project_id = ?", projectID).
		Scan(&row).Error
	if err != nil {
		return nil, dbError(err, "统计项目 %d 的社区评分失败", projectID)
	}

	out := &domain.RatingAverages{Count: row.Count}
	if row.Count == 0 {
		return out, nil
	}
	out.Averages = &domain.LeverScores{
		InsightCompression:  deref(row.InsightCompression),
		SubstrateEfficiency: deref(row.SubstrateEfficiency),
		BroadUtility:        deref(row.BroadUtility),
		Awareness:           deref(row.Awareness),
		AgentFriction:       deref(row.AgentFriction),
		HumanCoefficient:    deref(row.HumanCoefficient),
	}
	return out, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
