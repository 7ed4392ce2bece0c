package common

import (
	"errors"
	"fmt"
	"strings"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// 错误码常量
const (
	ErrCodeGitHubAPI    = "GITHUB_API_ERROR"
	ErrCodeDatabase     = "DATABASE_ERROR"
	ErrCodeNotification = "NOTIFICATION_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"

	ErrCodeParse      = "PARSE_ERROR"
	ErrCodeInvocation = "INVOCATION_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeEvaluation = "EVALUATION_ERROR"
	ErrCodeConflict   = "CONFLICT"

	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// CodeOf 返回错误链上最外层 AppError 的错误码
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode 沿错误链查找是否有指定错误码
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// MessageOf 返回最外层 AppError 的描述，没有则返回 err.Error()
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func NotFound(format string, args ...any) error {
	return NewError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return NewError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

func InvalidInput(format string, args ...any) error {
	return NewError(ErrCodeInvalidInput, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return NewError(ErrCodeConflict, fmt.Sprintf(format, args...))
}

func Unauthorized(message string) error {
	return NewError(ErrCodeUnauthorized, message)
}

func Forbidden(message string) error {
	return NewError(ErrCodeForbidden, message)
}

// ParseError 模型输出无法解析
func ParseError(message string, err error) error {
	return WrapError(ErrCodeParse, message, err)
}

// InvocationError 调用外部模型失败
func InvocationError(message string, err error) error {
	return WrapError(ErrCodeInvocation, message, err)
}

// EvaluationError 评估流程失败，底层原因保留在错误链中
func EvaluationError(message string, err error) error {
	return WrapError(ErrCodeEvaluation, message, err)
}

func DatabaseError(message string, err error) error {
	return WrapError(ErrCodeDatabase, message, err)
}

// Describe 拼接错误链上的描述，不带错误码，适合直接展示给调用方
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var parts []string
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			parts = append(parts, err.Error())
			break
		}
		parts = append(parts, appErr.Message)
		err = appErr.Err
	}
	return strings.Join(parts, ": ")
}
