package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"survival-index/internal/logging"
)

// RetryableFunc 返回 error 表示本次失败，需要重试
type RetryableFunc func() error

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent 标记重试也无济于事的错误 (4xx、空响应等)，Do 会立即返回原始错误。
// err 为 nil 时返回 nil，方便直接包住函数返回值
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type retryConfig struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	op           string
}

type Option func(*retryConfig)

// WithMaxRetries 首次调用之外最多重试几次，默认 3
func WithMaxRetries(n int) Option {
	return func(c *retryConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay 第一次重试前的等待，默认 1s
func WithInitialDelay(d time.Duration) Option {
	return func(c *retryConfig) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay 单次等待的上限，默认 30s
func WithMaxDelay(d time.Duration) Option {
	return func(c *retryConfig) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier 退避倍数，默认 2
func WithMultiplier(m float64) Option {
	return func(c *retryConfig) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

// WithOperation 设置后每次重试都会打一条 warn 日志
func WithOperation(name string) Option {
	return func(c *retryConfig) {
		c.op = name
	}
}

// Do 执行 fn，失败后按指数退避重试。
// 成功返回 nil；Permanent 错误原样返回；ctx 取消时返回包含 ctx.Err() 的错误；
// 重试用尽后返回包含最后一次错误的错误。
func Do(ctx context.Context, fn RetryableFunc, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}

	cfg := retryConfig{
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == cfg.maxRetries {
			break
		}

		delay := backoff(attempt+1, cfg)
		if cfg.op != "" {
			logging.Warn(ctx, "retrying after failure",
				slog.String("op", cfg.op),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
				slog.Any("error", err))
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt+1, ctx.Err())
		case <-timer.C:
		}
	}
	return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, err)
}

// backoff 第 n 次重试的等待: initialDelay * multiplier^(n-1)，不超过 maxDelay
func backoff(n int, cfg retryConfig) time.Duration {
	d := float64(cfg.initialDelay) * math.Pow(cfg.multiplier, float64(n-1))
	if d > float64(cfg.maxDelay) {
		return cfg.maxDelay
	}
	return time.Duration(d)
}
