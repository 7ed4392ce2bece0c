package httpapi

import (
	"net/http"
	"strings"

	"survival-index/internal/common"
	"survival-index/internal/domain"

	"github.com/labstack/echo/v4"
)

// projectRequest 创建、更新项目和投稿共用的字段
type projectRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Type          string `json:"type" validate:"required,project_type"`
	Category      string `json:"category" validate:"required,category"`
	Description   string `json:"description" validate:"required"`
	URL           string `json:"url" validate:"omitempty,url"`
	GithubURL     string `json:"githubUrl" validate:"omitempty,url"`
	Logo          string `json:"logo"`
	Tags          string `json:"tags"`
	YearCreated   *int   `json:"yearCreated" validate:"omitempty,min=1950,max=2100"`
	SelfHostable  bool   `json:"selfHostable"`
	License       string `json:"license"`
	TechStack     string `json:"techStack"`
	AlternativeTo string `json:"alternativeTo"`
}

func (r projectRequest) toProject() domain.Project {
	return domain.Project{
		Name:          strings.TrimSpace(r.Name),
		Type:          domain.ProjectType(r.Type),
		Category:      domain.Category(r.Category),
		Description:   r.Description,
		URL:           r.URL,
		GithubURL:     r.GithubURL,
		Logo:          r.Logo,
		Tags:          r.Tags,
		YearCreated:   r.YearCreated,
		SelfHostable:  r.SelfHostable,
		License:       r.License,
		TechStack:     r.TechStack,
		AlternativeTo: r.AlternativeTo,
	}
}

func (h *handler) listProjects(c echo.Context) error {
	f := domain.ProjectFilter{
		Page:  intQuery(c, "page", 1),
		Limit: intQuery(c, "limit", 0),
	}
	if t := c.QueryParam("type"); t != "" {
		pt, err := domain.ParseProjectType(t)
		if err != nil {
			return common.WrapError(common.ErrCodeInvalidInput, "Invalid type", err)
		}
		f.Type = pt
	}
	if cat := c.QueryParam("category"); cat != "" {
		pc, err := domain.ParseCategory(cat)
		if err != nil {
			return common.WrapError(common.ErrCodeInvalidInput, "Invalid category", err)
		}
		f.Category = pc
	}
	var err error
	if f.MinScore, err = floatQuery(c, "minScore"); err != nil {
		return err
	}
	if f.MaxScore, err = floatQuery(c, "maxScore"); err != nil {
		return err
	}

	page, err := h.svc.Projects.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *handler) leaderboard(c echo.Context) error {
	board, err := h.svc.Projects.Leaderboard(c.Request().Context(), intQuery(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

func (h *handler) getProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.Projects.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handler) createProject(c echo.Context) error {
	var req projectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p := req.toProject()
	created, err := h.svc.Projects.Create(c.Request().Context(), &p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *handler) updateProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.svc.Projects.Update(c.Request().Context(), id, req.toProject())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *handler) deleteProject(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Projects.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
