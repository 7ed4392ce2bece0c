package httpapi

import (
	"net/http"

	"survival-index/internal/domain"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	Name     string `json:"name"`
}

// login 缺字段时由 AuthService 返回校验错误
func (h *handler) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.svc.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"user":      res.User,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
	})
}

func (h *handler) logout(c echo.Context) error {
	if err := h.svc.Auth.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// logoutAll 注销当前用户在所有设备上的会话
func (h *handler) logoutAll(c echo.Context) error {
	if err := h.svc.Auth.LogoutAll(c.Request().Context(), currentUser(c).ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All sessions revoked"})
}

func (h *handler) me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": currentUser(c)})
}

func (h *handler) register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Auth.CreateUser(c.Request().Context(), req.Email, req.Password, domain.Role(req.Role), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": user})
}
