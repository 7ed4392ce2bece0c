package service

import (
	"context"
	"math"
	"testing"

	"survival-index/internal/common"
	"survival-index/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingService_Submit(t *testing.T) {
	valid := domain.LeverScores{InsightCompression: 7, SubstrateEfficiency: 8, BroadUtility: 6, Awareness: 5, AgentFriction: 9, HumanCoefficient: 10}

	tests := []struct {
		name     string
		scores   domain.LeverScores
		found    bool
		wantCode string
	}{
		{name: "合法评分", scores: valid, found: true},
		{name: "分数超过 10", scores: func() domain.LeverScores { s := valid; s.Awareness = 10.5; return s }(), wantCode: common.ErrCodeValidation},
		{name: "负分", scores: func() domain.LeverScores { s := valid; s.HumanCoefficient = -1; return s }(), wantCode: common.ErrCodeValidation},
		{name: "NaN", scores: func() domain.LeverScores { s := valid; s.BroadUtility = math.NaN(); return s }(), wantCode: common.ErrCodeValidation},
		{name: "项目不存在", scores: valid, found: false, wantCode: common.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			ratings := new(MockRatingRepository)
			if tt.found {
				projects.On("FindProjectByID", mock.Anything, uint(1)).Return(&domain.Project{ID: 1}, nil)
			} else {
				projects.On("FindProjectByID", mock.Anything, uint(1)).Return(nil, common.NotFound("project 1 not found"))
			}
			ratings.On("CreateUserRating", mock.Anything, mock.Anything).Return(nil)

			r, err := NewRatingService(projects, ratings).Submit(context.Background(), &domain.UserRating{ProjectID: 1, LeverScores: tt.scores})

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, uint(1), r.ProjectID)
				ratings.AssertNumberOfCalls(t, "CreateUserRating", 1)
				return
			}
			require.Error(t, err)
			assert.True(t, common.HasCode(err, tt.wantCode))
			ratings.AssertNotCalled(t, "CreateUserRating", mock.Anything, mock.Anything)
		})
	}
}
