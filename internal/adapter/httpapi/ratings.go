package httpapi

import (
	"net/http"

	"survival-index/internal/domain"

	"github.com/labstack/echo/v4"
)

// ratingRequest 六项分数都必须提供，范围由 RatingService 校验
type ratingRequest struct {
	ProjectID           uint     `json:"projectId" validate:"required"`
	InsightCompression  *float64 `json:"insightCompression" validate:"required"`
	SubstrateEfficiency *float64 `json:"substrateEfficiency" validate:"required"`
	BroadUtility        *float64 `json:"broadUtility" validate:"required"`
	Awareness           *float64 `json:"awareness" validate:"required"`
	AgentFriction       *float64 `json:"agentFriction" validate:"required"`
	HumanCoefficient    *float64 `json:"humanCoefficient" validate:"required"`
}

func (h *handler) submitRating(c echo.Context) error {
	var req ratingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r := &domain.UserRating{
		ProjectID: req.ProjectID,
		LeverScores: domain.LeverScores{
			InsightCompression:  *req.InsightCompression,
			SubstrateEfficiency: *req.SubstrateEfficiency,
			BroadUtility:        *req.BroadUtility,
			Awareness:           *req.Awareness,
			AgentFriction:       *req.AgentFriction,
			HumanCoefficient:    *req.HumanCoefficient,
		},
		IPAddress: c.RealIP(),
	}
	if u := currentUser(c); u != nil {
		r.UserID = &u.ID
	}

	created, err := h.svc.Ratings.Submit(c.Request().Context(), r)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *handler) listRatings(c echo.Context) error {
	id, err := idParam(c, "projectId")
	if err != nil {
		return err
	}
	ratings, err := h.svc.Ratings.List(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratings)
}

func (h *handler) averageRatings(c echo.Context) error {
	id, err := idParam(c, "projectId")
	if err != nil {
		return err
	}
	avg, err := h.svc.Ratings.Averages(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, avg)
}
