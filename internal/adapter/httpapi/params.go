package httpapi

import (
	"strconv"

	"survival-index/internal/common"

	"github.com/labstack/echo/v4"
)

// idParam 路径参数必须是正整数
func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, common.InvalidInput("Invalid %s", name)
	}
	return uint(id), nil
}

// intQuery 缺省或无法解析时返回 def
func intQuery(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func floatQuery(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, common.InvalidInput("Invalid %s", name)
	}
	return &f, nil
}
