package repository

import (
	"context"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"

	"gorm.io/gorm"
)

func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	return dbError(s.db.WithContext(ctx).Create(sub).Error, "保存投稿 %s 失败", sub.Name)
}

func (s *Store) FindSubmissionByID(ctx context.Context, id uint) (*domain.Submission, error) {
	var sub domain.Submission
	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, notFound(err, "submission %d not found", id)
	}
	return &sub, nil
}

func (s *Store) PendingSubmissionExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("name = ? AND status = ?", name, domain.SubmissionPending).
		Count(&count).Error
	return count > 0, dbError(err, "查询待审核投稿失败")
}

// ListSubmissions status 为空时返回全部状态
func (s *Store) ListSubmissions(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]domain.Submission, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&domain.Submission{})
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "统计投稿数量失败")
	}

	subs := []domain.Submission{}
	err := s.db.WithContext(ctx).
		Scopes(filter, paginate(page, limit)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&subs).Error
	if err != nil {
		return nil, 0, dbError(err, "查询投稿列表失败")
	}
	return subs, total, nil
}

func (s *Store) CountPendingSubmissions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("status = ?", domain.SubmissionPending).
		Count(&count).Error
	return count, dbError(err, "统计待审核投稿失败")
}

// ApproveSubmission 创建项目并回写投稿，两步在同一事务里。
// 调用方负责填好 ReviewedBy/ReviewNotes，状态和时间在这里设置。
func (s *Store) ApproveSubmission(ctx context.Context, sub *domain.Submission) (*domain.Project, error) {
	project := sub.ToProject()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 在事务内重新读取状态，已审核的投稿不能再次批准
		var current domain.Submission
		if err := tx.First(&current, sub.ID).Error; err != nil {
			return notFound(err, "submission %d not found", sub.ID)
		}
		if !current.IsPending() {
			return common.Validation("submission %d has already been %s", sub.ID, current.Status)
		}

		if err := tx.Omit("AIRating", "UserRatings").Create(project).Error; err != nil {
			return dbError(err, "创建项目 %s 失败", project.Name)
		}

		now := time.Now().UTC()
		sub.Status = domain.SubmissionApproved
		sub.ReviewedAt = &now
		sub.ProjectID = &project.ID
		if err := tx.Save(sub).Error; err != nil {
			return dbError(err, "更新投稿 %d 失败", sub.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Store) UpdateSubmission(ctx context.Context, sub *domain.Submission) error {
	return dbError(s.db.WithContext(ctx).Save(sub).Error, "更新投稿 %d 失败", sub.ID)
}

func (s *Store) DeleteSubmission(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Submission{}, id)
	if res.Error != nil {
		return dbError(res.Error, "删除投稿 %d 失败", id)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "submission %d not found", id)
	}
	return nil
}
