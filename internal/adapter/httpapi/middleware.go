package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"

	"github.com/labstack/echo/v4"
)

const userKey = "user"

// attachRequestID 把请求 ID 放进日志上下文，后续 logging.* 调用都会带上
func attachRequestID(c echo.Context, id string) {
	ctx := logging.WithAttrs(c.Request().Context(), slog.String("request_id", id))
	c.SetRequest(c.Request().WithContext(ctx))
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// 先让错误处理器写响应，才能拿到最终状态码
				c.Error(err)
			}
			logging.Info(c.Request().Context(), "handled request",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

func recoverer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					stack := make([]byte, 4<<10)
					length := runtime.Stack(stack, false)
					logging.Error(c.Request().Context(), "recovered from panic",
						slog.Any("error", err),
						slog.String("stack", string(stack[:length])),
					)
					returnErr = common.WrapError(common.ErrCodeInternal, "panic", err)
				}
			}()
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *handler) authenticate(c echo.Context) (*domain.User, error) {
	user, err := h.svc.Auth.ValidateSession(c.Request().Context(), bearerToken(c))
	if err != nil {
		return nil, err
	}
	c.Set(userKey, user)
	ctx := logging.WithAttrs(c.Request().Context(), slog.Uint64("user_id", uint64(user.ID)))
	c.SetRequest(c.Request().WithContext(ctx))
	return user, nil
}

func (h *handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := h.authenticate(c); err != nil {
			return err
		}
		return next(c)
	}
}

func (h *handler) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := h.authenticate(c)
		if err != nil {
			return err
		}
		if !user.IsAdmin() {
			return common.Forbidden("Admin access required")
		}
		return next(c)
	}
}

// optionalAuth 令牌有效时记录用户，无效时当作匿名请求
func (h *handler) optionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if bearerToken(c) != "" {
			if _, err := h.authenticate(c); err != nil {
				logging.Debug(c.Request().Context(), "ignoring invalid session", slog.Any("error", err))
			}
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}
