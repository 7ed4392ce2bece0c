package httpapi

import (
	"context"
	"net/http"

	"survival-index/internal/domain"

	"github.com/labstack/echo/v4"
)

type exportResponse struct {
	Success bool `json:"success"`
	domain.ExportFile
}

func (h *handler) exportWith(c echo.Context, fn func(context.Context) (domain.ExportFile, error)) error {
	f, err := fn(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exportResponse{Success: true, ExportFile: f})
}

func (h *handler) exportProjects(c echo.Context) error {
	return h.exportWith(c, h.svc.Export.ExportProjects)
}

func (h *handler) exportAIRatings(c echo.Context) error {
	return h.exportWith(c, h.svc.Export.ExportAIRatings)
}

func (h *handler) exportCommunityRatings(c echo.Context) error {
	return h.exportWith(c, h.svc.Export.ExportCommunityRatings)
}

func (h *handler) exportSubmissions(c echo.Context) error {
	return h.exportWith(c, h.svc.Export.ExportSubmissions)
}

func (h *handler) exportAll(c echo.Context) error {
	result, err := h.svc.Export.ExportAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) exportStats(c echo.Context) error {
	stats, err := h.svc.Export.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}
