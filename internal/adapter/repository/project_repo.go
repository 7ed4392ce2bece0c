package repository

import (
	"context"
	"time"

	"survival-index/internal/domain"

	"gorm.io/gorm"
)

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	return dbError(s.db.WithContext(ctx).Omit("AIRating", "UserRatings").Create(p).Error, "创建项目 %s 失败", p.Name)
}

func (s *Store) UpdateProject(ctx context.Context, p *domain.Project) error {
	return dbError(s.db.WithContext(ctx).Omit("AIRating", "UserRatings").Save(p).Error, "更新项目 %d 失败", p.ID)
}

// DeleteProject 评分随项目级联删除
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.AIRating{}).Error; err != nil {
			return dbError(err, "删除项目 %d 的评分失败", id)
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.UserRating{}).Error; err != nil {
			return dbError(err, "删除项目 %d 的社区评分失败", id)
		}
		res := tx.Delete(&domain.Project{}, id)
		if res.Error != nil {
			return dbError(res.Error, "删除项目 %d 失败", id)
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "project %d not found", id)
		}
		return nil
	})
}

// FindProjectByID 附带 AI 评分和社区评分
func (s *Store) FindProjectByID(ctx context.Context, id uint) (*domain.Project, error) {
	var p domain.Project
	err := s.db.WithContext(ctx).
		Preload("AIRating").
		Preload("UserRatings", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err, "project %d not found", id)
	}
	return &p, nil
}

func (s *Store) ProjectNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Project{}).Where("name = ?", name).Count(&count).Error
	return count > 0, dbError(err, "查询项目名称失败")
}

// ListProjects 分数过滤要求项目已有 AI 评分
func (s *Store) ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&domain.Project{})
		if f.Type != "" {
			db = db.Where("projects.type = ?", f.Type)
		}
		if f.Category != "" {
			db = db.Where("projects.category = ?", f.Category)
		}
		if f.MinScore != nil || f.MaxScore != nil {
			db = db.Joins("JOIN ai_ratings ON ai_ratings.project_id = projects.id")
			if f.MinScore != nil {
				db = db.Where("ai_ratings.survival_score >= ?", *f.MinScore)
			}
			if f.MaxScore != nil {
				db = db.Where("ai_ratings.survival_score <= ?", *f.MaxScore)
			}
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "统计项目数量失败")
	}

	var projects []domain.Project
	err := s.db.WithContext(ctx).
		Scopes(filter, paginate(f.Page, f.Limit)).
		Preload("AIRating").
		Preload("UserRatings").
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, 0, dbError(err, "查询项目列表失败")
	}
	return projects, total, nil
}

// Leaderboard 只包含已评分项目，按生存分数降序
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]domain.Project, error) {
	var projects []domain.Project
	err := s.db.WithContext(ctx).
		Preload("AIRating").
		Joins("JOIN ai_ratings ON ai_ratings.project_id = projects.id").
		Order("ai_ratings.survival_score DESC").
		Order("projects.id ASC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, dbError(err, "查询排行榜失败")
	}
	return projects, nil
}

// FindProjectsNeedingEvaluation 从未评分或评分早于 cutoff 的项目
func (s *Store) FindProjectsNeedingEvaluation(ctx context.Context, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&domain.Project{}).
		Joins("LEFT JOIN ai_ratings ON ai_ratings.project_id = projects.id").
		Where("ai_ratings.id IS NULL OR ai_ratings.last_analyzed_at < ?", cutoff).
		Order("projects.id ASC").
		Pluck("projects.id", &ids).Error
	if err != nil {
		return nil, dbError(err, "查询待重新评估项目失败")
	}
	return ids, nil
}
