package service

import (
	"context"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/port"
)

// RatingService 社区评分
type RatingService struct {
	projects port.ProjectRepository
	ratings  port.RatingRepository
}

func NewRatingService(projects port.ProjectRepository, ratings port.RatingRepository) *RatingService {
	return &RatingService{projects: projects, ratings: ratings}
}

// Submit 六项分数都必须在 [0,10] 内，且项目存在
func (s *RatingService) Submit(ctx context.Context, r *domain.UserRating) (*domain.UserRating, error) {
	if err := r.LeverScores.Validate(); err != nil {
		return nil, common.WrapError(common.ErrCodeValidation, "All scores must be between 0 and 10", err)
	}
	if _, err := s.projects.FindProjectByID(ctx, r.ProjectID); err != nil {
		return nil, err
	}

	r.ID = 0
	if err := s.ratings.CreateUserRating(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RatingService) List(ctx context.Context, projectID uint) ([]domain.UserRating, error) {
	return s.ratings.ListUserRatings(ctx, projectID)
}

func (s *RatingService) Averages(ctx context.Context, projectID uint) (*domain.RatingAverages, error) {
	return s.ratings.AverageUserRatings(ctx, projectID)
}
