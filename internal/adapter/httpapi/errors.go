package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"survival-index/internal/common"
	"survival-index/internal/logging"

	"github.com/labstack/echo/v4"
)

// statusFor 把业务错误码映射为 HTTP 状态码
func statusFor(code string) int {
	switch code {
	case common.ErrCodeNotFound:
		return http.StatusNotFound
	case common.ErrCodeValidation, common.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case common.ErrCodeConflict:
		return http.StatusConflict
	case common.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrCodeForbidden:
		return http.StatusForbidden
	case common.ErrCodeEvaluation, common.ErrCodeParse, common.ErrCodeInvocation, common.ErrCodeGitHubAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler 统一返回 {"error": "..."}，日志也在这里打，handler 里只管返回错误
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		ctx := c.Request().Context()

		status := http.StatusInternalServerError
		body := echo.Map{"error": http.StatusText(http.StatusInternalServerError)}

		var he *echo.HTTPError
		var appErr *common.AppError
		switch {
		case errors.As(err, &he):
			status = he.Code
			body["error"] = httpErrorMessage(he)
		case errors.As(err, &appErr):
			status = statusFor(appErr.Code)
			body["code"] = appErr.Code
			switch {
			case status == http.StatusBadGateway:
				body["error"] = common.Describe(err)
			case status < http.StatusInternalServerError:
				body["error"] = appErr.Message
			}
		}
		if e.Debug && status >= http.StatusInternalServerError {
			body["message"] = err.Error()
		}

		if status >= http.StatusInternalServerError {
			logging.Error(ctx, "request failed", slog.Int("status", status), slog.Any("error", err))
		} else {
			logging.Debug(ctx, "request rejected", slog.Int("status", status), slog.Any("error", err))
		}

		if c.Request().Method == http.MethodHead {
			c.NoContent(status)
			return
		}
		c.JSON(status, body)
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if he.Internal != nil {
		var inner *echo.HTTPError
		if errors.As(he.Internal, &inner) {
			he = inner
		}
	}
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	default:
		return fmt.Sprint(m)
	}
}
