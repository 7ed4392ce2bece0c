package common_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"survival-index/internal/common"
)

type httpStatusError struct{ code int }

func (e httpStatusError) Error() string { return http.StatusText(e.code) }

// 模型接口限流时重试，鉴权失败时直接放弃
func ExampleDo() {
	statuses := []int{http.StatusTooManyRequests, http.StatusOK}
	calls := 0

	err := common.Do(context.Background(), func() error {
		code := statuses[calls]
		calls++
		switch {
		case code == http.StatusOK:
			return nil
		case code >= 400 && code < 500 && code != http.StatusTooManyRequests:
			return common.Permanent(httpStatusError{code})
		default:
			return httpStatusError{code}
		}
	}, common.WithMaxRetries(2), common.WithInitialDelay(time.Millisecond))

	fmt.Println(calls, err)
	// Output: 2 <nil>
}

func ExamplePermanent() {
	calls := 0
	err := common.Do(context.Background(), func() error {
		calls++
		return common.Permanent(httpStatusError{http.StatusUnauthorized})
	}, common.WithMaxRetries(5))

	var statusErr httpStatusError
	fmt.Println(calls, errors.As(err, &statusErr), statusErr.code)
	// Output: 1 true 401
}
