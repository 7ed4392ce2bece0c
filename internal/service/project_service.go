package service

import (
	"context"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/port"
)

const (
	defaultPageSize   = 20
	maxPageSize       = 100
	defaultBoardLimit = 100
)

// ProjectPage 分页后的项目列表
type ProjectPage struct {
	Data       []domain.Project  `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

type ProjectService struct {
	projects port.ProjectRepository
}

func NewProjectService(projects port.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) List(ctx context.Context, f domain.ProjectFilter) (*ProjectPage, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit)

	projects, total, err := s.projects.ListProjects(ctx, f)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return &ProjectPage{
		Data:       projects,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*domain.Project, error) {
	return s.projects.FindProjectByID(ctx, id)
}

// Create 名称必须唯一
func (s *ProjectService) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	exists, err := s.projects.ProjectNameExists(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Conflict("a project named %q already exists", p.Name)
	}
	if p.Logo == "" {
		p.Logo = domain.DefaultLogo
	}
	p.ID = 0
	if err := s.projects.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update 用 changes 替换项目的可编辑字段，ID 和创建时间保持不变
func (s *ProjectService) Update(ctx context.Context, id uint, changes domain.Project) (*domain.Project, error) {
	current, err := s.projects.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Name != current.Name {
		exists, err := s.projects.ProjectNameExists(ctx, changes.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.Conflict("a project named %q already exists", changes.Name)
		}
	}

	current.Name = changes.Name
	current.Type = changes.Type
	current.Category = changes.Category
	current.Description = changes.Description
	current.URL = changes.URL
	current.GithubURL = changes.GithubURL
	current.Tags = changes.Tags
	current.YearCreated = changes.YearCreated
	current.SelfHostable = changes.SelfHostable
	current.License = changes.License
	current.TechStack = changes.TechStack
	current.AlternativeTo = changes.AlternativeTo
	if changes.Logo != "" {
		current.Logo = changes.Logo
	}

	if err := s.projects.UpdateProject(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.projects.DeleteProject(ctx, id)
}

// Leaderboard limit <= 0 时取 100
func (s *ProjectService) Leaderboard(ctx context.Context, limit int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = defaultBoardLimit
	}
	projects, err := s.projects.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
