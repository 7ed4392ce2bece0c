package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"survival-index/internal/common"
	"survival-index/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里使用 JSON 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("project_type", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseProjectType(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.WrapError(common.ErrCodeValidation, "invalid request", err)
	}
	return common.WrapError(common.ErrCodeValidation, validationMessage(verrs), err)
}

// validationMessage 缺失字段合并成一条，其余取第一个错误
func validationMessage(verrs validator.ValidationErrors) string {
	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "project_type":
		return "Invalid type: must be one of open-source, saas, hybrid"
	case "category":
		return fmt.Sprintf("Invalid category: %v", fe.Value())
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL in field " + fe.Field()
	case "min", "max", "gte", "lte":
		return "Field " + fe.Field() + " is out of range"
	default:
		return "Invalid value for field " + fe.Field()
	}
}

// bindAndValidate 解析请求体并校验
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.WrapError(common.ErrCodeInvalidInput, "Invalid request body", err)
	}
	return c.Validate(req)
}
