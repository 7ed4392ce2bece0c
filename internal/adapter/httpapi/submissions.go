package httpapi

import (
	"net/http"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/service"

	"github.com/labstack/echo/v4"
)

type submissionRequest struct {
	projectRequest
	SubmittedBy    string `json:"submittedBy"`
	SubmitterEmail string `json:"submitterEmail" validate:"omitempty,email"`
}

type approveRequest struct {
	ReviewNotes         string `json:"reviewNotes"`
	TriggerAIEvaluation bool   `json:"triggerAIEvaluation"`
}

type rejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
	ReviewNotes     string `json:"reviewNotes"`
}

type submissionSummary struct {
	ID        uint                    `json:"id"`
	Name      string                  `json:"name"`
	Status    domain.SubmissionStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

type approveResponse struct {
	Message             string `json:"message"`
	TriggerAIEvaluation bool   `json:"triggerAIEvaluation"`
	*service.Approval
}

func (h *handler) submitProject(c echo.Context) error {
	var req submissionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p := req.toProject()
	sub := &domain.Submission{
		Name:           p.Name,
		Type:           p.Type,
		Category:       p.Category,
		Description:    p.Description,
		URL:            p.URL,
		GithubURL:      p.GithubURL,
		Logo:           p.Logo,
		Tags:           p.Tags,
		YearCreated:    p.YearCreated,
		SelfHostable:   p.SelfHostable,
		License:        p.License,
		TechStack:      p.TechStack,
		AlternativeTo:  p.AlternativeTo,
		SubmittedBy:    req.SubmittedBy,
		SubmitterEmail: req.SubmitterEmail,
	}
	created, err := h.svc.Submissions.Submit(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Project submitted successfully! It will be reviewed by an admin.",
		"submission": submissionSummary{
			ID:        created.ID,
			Name:      created.Name,
			Status:    created.Status,
			CreatedAt: created.CreatedAt,
		},
	})
}

func (h *handler) listSubmissions(c echo.Context) error {
	var status domain.SubmissionStatus
	if raw := c.QueryParam("status"); raw != "" {
		s, err := domain.ParseSubmissionStatus(raw)
		if err != nil {
			return common.WrapError(common.ErrCodeInvalidInput, "Invalid status", err)
		}
		status = s
	}
	page, err := h.svc.Submissions.List(c.Request().Context(), status, intQuery(c, "page", 1), intQuery(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *handler) pendingCount(c echo.Context) error {
	n, err := h.svc.Submissions.PendingCount(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

func (h *handler) getSubmission(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	sub, err := h.svc.Submissions.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *handler) approveSubmission(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return common.WrapError(common.ErrCodeInvalidInput, "Invalid request body", err)
	}

	approval, err := h.svc.Submissions.Approve(c.Request().Context(), id, service.Review{
		ReviewerID:        currentUser(c).ID,
		Notes:             req.ReviewNotes,
		TriggerEvaluation: req.TriggerAIEvaluation,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, approveResponse{
		Message:             "Submission approved and project created",
		TriggerAIEvaluation: req.TriggerAIEvaluation,
		Approval:            approval,
	})
}

func (h *handler) rejectSubmission(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return common.WrapError(common.ErrCodeInvalidInput, "Invalid request body", err)
	}

	sub, err := h.svc.Submissions.Reject(c.Request().Context(), id, service.Review{
		ReviewerID:      currentUser(c).ID,
		Notes:           req.ReviewNotes,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Submission rejected", "submission": sub})
}

func (h *handler) deleteSubmission(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Submissions.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Submission deleted successfully"})
}
