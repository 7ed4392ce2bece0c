package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"survival-index/internal/common"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens = 4096
)

// Client 实现了 port.ModelClient 接口
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	retryOpts []common.Option
}

// NewClient 创建 Claude 客户端。额外的 opts 可以用来指定 base URL 等
func NewClient(apiKey, model string, maxTokens int, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	// SDK 自带的重试关掉，统一交给 common.Do
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: int64(maxTokens),
		retryOpts: []common.Option{
			common.WithMaxRetries(2),
			common.WithInitialDelay(2 * time.Second),
			common.WithOperation("anthropic.messages"),
		},
	}
}

func (c *Client) ModelName() string {
	return c.model
}

// Complete 发送单条用户消息，返回所有文本块拼接的结果
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var text string
	err := common.Do(ctx, func() error {
		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return classify(err)
		}
		text, err = messageText(msg)
		return common.Permanent(err)
	}, c.retryOpts...)
	if err != nil {
		return "", common.InvocationError("Claude 调用失败", err)
	}
	return text, nil
}

// classify 4xx (限流除外) 直接放弃
func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		code := apiErr.StatusCode
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return common.Permanent(err)
		}
	}
	return err
}

func messageText(msg *anthropic.Message) (string, error) {
	if msg == nil {
		return "", errors.New("AI 返回内容为空")
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("AI 返回内容为空")
	}
	return b.String(), nil
}
