package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
)

// 卡片里最多列出的项目数
const maxListed = 10

// Notifier 实现了 port.Notifier 接口
type Notifier struct {
	webhookURL   string
	dashboardURL string
	client       *http.Client
	retryOpts    []common.Option
}

// NewNotifier dashboardURL 为空时卡片不带跳转按钮
func NewNotifier(webhook, dashboardURL string) *Notifier {
	if webhook == "" {
		slog.Warn("feishu webhook is empty, notifications are disabled")
	}
	return &Notifier{
		webhookURL:   webhook,
		dashboardURL: dashboardURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		retryOpts: []common.Option{
			common.WithMaxRetries(3),
			common.WithInitialDelay(500 * time.Millisecond),
			common.WithOperation("feishu.webhook"),
		},
	}
}

// NotifyBatch 发送批量评估摘要卡片 (Schema 2.0)
func (n *Notifier) NotifyBatch(ctx context.Context, result *domain.BatchResult) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "Webhook URL 为空")
	}
	if result == nil {
		return nil
	}

	body, err := json.Marshal(n.buildCard(result))
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "构造卡片失败", err)
	}

	err = common.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
		if err != nil {
			return common.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("飞书 API 报错: 状态码 %d", resp.StatusCode)
		}
		return nil
	}, n.retryOpts...)
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "发送请求失败", err)
	}
	return nil
}

func (n *Notifier) buildCard(result *domain.BatchResult) map[string]any {
	stats := result.Stats
	title := fmt.Sprintf("🏁 批量评估完成: %d/%d 成功", stats.Successful, stats.Total)
	template := "green"
	if stats.Failed > 0 {
		template = "orange"
	}

	elements := []map[string]any{
		{
			"tag":       "markdown",
			"content":   summaryMarkdown(result),
			"text_size": "normal",
		},
	}
	if n.dashboardURL != "" {
		elements = append(elements, map[string]any{
			"tag": "button",
			"text": map[string]any{
				"tag":     "plain_text",
				"content": "🔗 查看排行榜",
			},
			"type": "primary",
			"behaviors": []map[string]any{
				{
					"type":        "open_url",
					"default_url": n.dashboardURL,
				},
			},
		})
	}

	return map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"schema": "2.0",
			"config": map[string]any{
				"update_multi": true,
			},
			"header": map[string]any{
				"title": map[string]any{
					"tag":     "plain_text",
					"content": title,
				},
				"template": template,
			},
			"body": map[string]any{
				"direction": "vertical",
				"elements":  elements,
			},
		},
	}
}

// summaryMarkdown 成功的按生存分数降序，失败的按输入顺序
func summaryMarkdown(result *domain.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**总数:** %d  |  **成功:** %d  |  **失败:** %d\n",
		result.Stats.Total, result.Stats.Successful, result.Stats.Failed)

	ok := make([]*domain.EvaluationOutcome, 0, len(result.Successful))
	for _, o := range result.Successful {
		if o != nil && o.Project != nil && o.Evaluation != nil {
			ok = append(ok, o)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].Evaluation.SurvivalScore > ok[j].Evaluation.SurvivalScore
	})

	if len(ok) > 0 {
		b.WriteString("\n**🏆 评估结果:**\n")
		for i, o := range ok {
			if i == maxListed {
				fmt.Fprintf(&b, "- ……另外 %d 个项目\n", len(ok)-maxListed)
				break
			}
			fmt.Fprintf(&b, "- %s: **%.2f** (%s)\n", o.Project.Name, o.Evaluation.SurvivalScore, o.Evaluation.Tier)
		}
	}

	if len(result.Failed) > 0 {
		b.WriteString("\n**⚠️ 失败:**\n")
		for i, f := range result.Failed {
			if i == maxListed {
				fmt.Fprintf(&b, "- ……另外 %d 个失败\n", len(result.Failed)-maxListed)
				break
			}
			fmt.Fprintf(&b, "- #%d: %s\n", f.ProjectID, f.Error)
		}
	}
	return b.String()
}
