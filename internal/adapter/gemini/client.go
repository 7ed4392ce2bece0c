package gemini

import (
	"context"
	"errors"
	"strings"

	"survival-index/internal/common"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash-lite"

// Client 实现了 port.ModelClient 接口
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewClient(ctx context.Context, apiKey, modelName string, maxTokens int, opts ...option.ClientOption) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, common.InvocationError("初始化 Gemini 客户端失败", err)
	}

	model := client.GenerativeModel(modelName)
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	return &Client{
		client:    client,
		model:     model,
		modelName: modelName,
	}, nil
}

func (c *Client) ModelName() string {
	return c.modelName
}

// Complete 调用 Gemini，返回拼接后的文本
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var text string
	err := common.Do(ctx, func() error {
		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return err
		}
		text, err = responseText(resp)
		// 空响应重试也没用
		return common.Permanent(err)
	}, common.WithMaxRetries(2), common.WithOperation("gemini.generate"))
	if err != nil {
		return "", common.InvocationError("Gemini 调用失败", err)
	}
	return text, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// responseText 取第一个候选的全部文本片段
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("AI 返回内容为空")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", errors.New("AI 返回内容为空")
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("AI 返回格式错误")
	}
	return b.String(), nil
}
