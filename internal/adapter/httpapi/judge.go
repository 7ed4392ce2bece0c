package httpapi

import (
	"fmt"
	"net/http"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/service"

	"github.com/labstack/echo/v4"
)

type batchRequest struct {
	ProjectIDs []uint `json:"projectIds"`
}

type reevaluateResponse struct {
	Message string `json:"message"`
	*domain.BatchResult
}

func (h *handler) evaluate(c echo.Context) error {
	id, err := idParam(c, "projectId")
	if err != nil {
		return err
	}
	out, err := h.svc.Evaluation.EvaluateAndStore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"project":  out.Project,
		"aiRating": out.AIRating,
		"message":  fmt.Sprintf("Project %q evaluated successfully", out.Project.Name),
	})
}

func (h *handler) batchEvaluate(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return common.WrapError(common.ErrCodeInvalidInput, "projectIds must be a non-empty array", err)
	}
	if len(req.ProjectIDs) == 0 {
		return common.Validation("projectIds must be a non-empty array")
	}
	return c.JSON(http.StatusOK, h.svc.Evaluation.BatchEvaluate(c.Request().Context(), req.ProjectIDs))
}

func (h *handler) reevaluateStale(c echo.Context) error {
	days := intQuery(c, "daysOld", service.DefaultStaleDays)
	result, err := h.svc.Evaluation.ReevaluateStale(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reevaluateResponse{Message: "Re-evaluation complete", BatchResult: result})
}
