package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

var endpoints = echo.Map{
	"health": "GET /api/health",
	"auth": echo.Map{
		"login":     "POST /api/auth/login (body: {email, password})",
		"logout":    "POST /api/auth/logout",
		"logoutAll": "POST /api/auth/logout-all",
		"me":        "GET /api/auth/me",
		"register":  "POST /api/auth/register (body: {email, password, role?, name?}) [ADMIN ONLY]",
	},
	"projects": echo.Map{
		"list":        "GET /api/projects",
		"getById":     "GET /api/projects/:id",
		"leaderboard": "GET /api/projects/leaderboard",
		"create":      "POST /api/projects [ADMIN ONLY]",
		"update":      "PUT /api/projects/:id [ADMIN ONLY]",
		"delete":      "DELETE /api/projects/:id [ADMIN ONLY]",
	},
	"aiJudge": echo.Map{
		"evaluate":        "POST /api/ai-judge/evaluate/:projectId [ADMIN ONLY]",
		"batchEvaluate":   "POST /api/ai-judge/batch-evaluate (body: {projectIds: [1,2,3]}) [ADMIN ONLY]",
		"reevaluateStale": "POST /api/ai-judge/reevaluate-stale?daysOld=30 [ADMIN ONLY]",
	},
	"ratings": echo.Map{
		"submit":       "POST /api/ratings",
		"getByProject": "GET /api/ratings/:projectId",
		"getAverage":   "GET /api/ratings/:projectId/average",
	},
	"submissions": echo.Map{
		"submit":       "POST /api/submissions (body: project details)",
		"list":         "GET /api/submissions [ADMIN ONLY]",
		"get":          "GET /api/submissions/:id [ADMIN ONLY]",
		"pendingCount": "GET /api/submissions/pending/count [ADMIN ONLY]",
		"approve":      "POST /api/submissions/:id/approve [ADMIN ONLY]",
		"reject":       "POST /api/submissions/:id/reject (body: {rejectionReason}) [ADMIN ONLY]",
		"delete":       "DELETE /api/submissions/:id [ADMIN ONLY]",
	},
	"export": echo.Map{
		"projects":         "GET /api/export/projects",
		"aiRatings":        "GET /api/export/ai-ratings",
		"communityRatings": "GET /api/export/community-ratings",
		"submissions":      "GET /api/export/submissions",
		"stats":            "GET /api/export/stats",
		"generate":         "POST /api/export/generate [ADMIN ONLY]",
	},
}

func (h *handler) root(c echo.Context) error {
	mode := "PRODUCTION"
	if h.opts.DemoMode {
		mode = "DEMO MODE"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":        "SurvivalIndex API",
		"version":     apiVersion,
		"description": "AI-powered software survival rating platform",
		"mode":        mode,
		"endpoints":   endpoints,
	})
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "ok",
		"timestamp":   time.Now().UTC(),
		"environment": h.opts.Environment,
	})
}
