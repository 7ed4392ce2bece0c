package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewError(ErrCodeNotFound, "project 7 not found")
	assert.Equal(t, "[NOT_FOUND] project 7 not found", err.Error())

	wrapped := WrapError(ErrCodeDatabase, "query failed", errors.New("conn reset"))
	assert.Equal(t, "[DATABASE_ERROR] query failed: conn reset", wrapped.Error())
}

func TestHasCode_WalksChain(t *testing.T) {
	root := Validation("awareness out of range")
	eval := EvaluationError("AI judge evaluation failed", fmt.Errorf("scoring: %w", root))

	assert.True(t, HasCode(eval, ErrCodeEvaluation))
	assert.True(t, HasCode(eval, ErrCodeValidation))
	assert.False(t, HasCode(eval, ErrCodeParse))
	assert.Equal(t, ErrCodeEvaluation, CodeOf(eval))
	assert.Equal(t, "AI judge evaluation failed", MessageOf(eval))

	var appErr *AppError
	assert.True(t, errors.As(eval, &appErr))
}

func TestHasCode_PlainError(t *testing.T) {
	plain := errors.New("boom")
	assert.False(t, HasCode(plain, ErrCodeInternal))
	assert.Equal(t, "", CodeOf(plain))
	assert.Equal(t, "boom", MessageOf(plain))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "普通错误", err: errors.New("boom"), want: "boom"},
		{name: "单层", err: NotFound("project %d not found", 9), want: "project 9 not found"},
		{
			name: "多层",
			err:  EvaluationError("AI judge evaluation failed", InvocationError("model call failed", errors.New("connection refused"))),
			want: "AI judge evaluation failed: model call failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}
