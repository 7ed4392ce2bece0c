package service

import (
	"context"
	"testing"

	"survival-index/internal/common"
	"survival-index/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_List(t *testing.T) {
	tests := []struct {
		name      string
		in        domain.ProjectFilter
		wantPage  int
		wantLimit int
	}{
		{name: "默认分页", in: domain.ProjectFilter{}, wantPage: 1, wantLimit: 20},
		{name: "上限 100", in: domain.ProjectFilter{Page: 2, Limit: 500}, wantPage: 2, wantLimit: 100},
		{name: "保留过滤条件", in: domain.ProjectFilter{Category: domain.CategoryDatabases, Page: 3, Limit: 5}, wantPage: 3, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			projects.On("ListProjects", mock.Anything, mock.MatchedBy(func(f domain.ProjectFilter) bool {
				return f.Page == tt.wantPage && f.Limit == tt.wantLimit && f.Category == tt.in.Category
			})).Return(nil, int64(41), nil)

			page, err := NewProjectService(projects).List(context.Background(), tt.in)

			require.NoError(t, err)
			assert.NotNil(t, page.Data)
			assert.Equal(t, int64(41), page.Pagination.Total)
			assert.Equal(t, tt.wantPage, page.Pagination.Page)
			projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Create(t *testing.T) {
	t.Run("成功并补默认图标", func(t *testing.T) {
		projects := new(MockProjectRepository)
		projects.On("ProjectNameExists", mock.Anything, "Caddy").Return(false, nil)
		projects.On("CreateProject", mock.Anything, mock.MatchedBy(func(p *domain.Project) bool {
			return p.Logo == domain.DefaultLogo
		})).Return(nil)

		p, err := NewProjectService(projects).Create(context.Background(), &domain.Project{Name: "Caddy"})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultLogo, p.Logo)
	})

	t.Run("重名", func(t *testing.T) {
		projects := new(MockProjectRepository)
		projects.On("ProjectNameExists", mock.Anything, "Redis").Return(true, nil)

		_, err := NewProjectService(projects).Create(context.Background(), &domain.Project{Name: "Redis"})

		assert.True(t, common.HasCode(err, common.ErrCodeConflict))
		projects.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything)
	})
}

func TestProjectService_Update(t *testing.T) {
	projects := new(MockProjectRepository)
	current := &domain.Project{ID: 2, Name: "Redis", Logo: "🟥", Description: "old"}
	projects.On("FindProjectByID", mock.Anything, uint(2)).Return(current, nil)
	projects.On("UpdateProject", mock.Anything, mock.Anything).Return(nil)

	updated, err := NewProjectService(projects).Update(context.Background(), 2, domain.Project{Name: "Redis", Description: "new"})

	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.ID)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "🟥", updated.Logo)
	projects.AssertNotCalled(t, "ProjectNameExists", mock.Anything, mock.Anything)
}

func TestProjectService_Update_RenameConflict(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("FindProjectByID", mock.Anything, uint(2)).Return(&domain.Project{ID: 2, Name: "Redis"}, nil)
	projects.On("ProjectNameExists", mock.Anything, "Valkey").Return(true, nil)

	_, err := NewProjectService(projects).Update(context.Background(), 2, domain.Project{Name: "Valkey"})

	assert.True(t, common.HasCode(err, common.ErrCodeConflict))
	projects.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything)
}

func TestProjectService_Leaderboard_DefaultLimit(t *testing.T) {
	projects := new(MockProjectRepository)
	projects.On("Leaderboard", mock.Anything, 100).Return(nil, nil)

	board, err := NewProjectService(projects).Leaderboard(context.Background(), 0)

	require.NoError(t, err)
	assert.NotNil(t, board)
	projects.AssertExpectations(t)
}
