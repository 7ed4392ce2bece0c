package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

const (
	// 统计最近 90 天的提交，单页最多 100 条
	activityWindow = 90 * 24 * time.Hour
	commitsPerPage = 100
	// 超过该提交数视为活跃
	activeCommitThreshold = 10
)

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// Collector 实现了 port.MetricsCollector 接口
type Collector struct {
	client    *github.Client
	hasToken  bool
	nowFunc   func() time.Time
	retryOpts []common.Option
}

// NewCollector 初始化 GitHub 客户端。token 为空时采集功能关闭，FetchMetrics 总是返回 nil
func NewCollector(token string) *Collector {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Collector{
		client:   client,
		hasToken: token != "",
		nowFunc:  time.Now,
		retryOpts: []common.Option{
			common.WithMaxRetries(2),
			common.WithInitialDelay(500 * time.Millisecond),
			common.WithOperation("github.api"),
		},
	}
}

// ParseRepoURL 从 URL 中提取 owner 和仓库名，去掉 .git 后缀
func ParseRepoURL(repoURL string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(repoURL)
	if m == nil {
		return "", "", false
	}
	owner, repo = m[1], m[2]
	if i := strings.IndexAny(repo, "?#"); i >= 0 {
		repo = repo[:i]
	}
	repo = strings.TrimSuffix(repo, ".git")
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

// FetchMetrics 拉取仓库指标和近 90 天提交数。
// 没有 token、URL 无法识别或 API 出错时返回 nil，错误只记录日志。
func (c *Collector) FetchMetrics(ctx context.Context, repoURL string) *domain.ExternalMetrics {
	if !c.hasToken {
		logging.Warn(ctx, "no GitHub token provided, skipping GitHub analysis")
		return nil
	}

	owner, name, ok := ParseRepoURL(repoURL)
	if !ok {
		logging.Warn(ctx, "invalid GitHub URL format", slog.String("url", repoURL))
		return nil
	}
	ctx = logging.WithAttrs(ctx, slog.String("owner", owner), slog.String("repo", name))

	repo, err := c.getRepository(ctx, owner, name)
	if err != nil {
		logging.Warn(ctx, "GitHub analysis failed", slog.Any("error", err))
		return nil
	}

	commits, err := c.countRecentCommits(ctx, owner, name)
	if err != nil {
		logging.Warn(ctx, "GitHub analysis failed", slog.Any("error", err))
		return nil
	}

	m := toMetrics(repo)
	m.RecentCommitsCount = commits
	m.IsActive = commits > activeCommitThreshold
	return m
}

func (c *Collector) getRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	var repo *github.Repository
	err := common.Do(ctx, func() error {
		r, _, err := c.client.Repositories.Get(ctx, owner, name)
		if err != nil {
			return classify(err)
		}
		repo = r
		return nil
	}, c.retryOpts...)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("获取仓库 %s/%s 失败", owner, name), err)
	}
	return repo, nil
}

func (c *Collector) countRecentCommits(ctx context.Context, owner, name string) (int, error) {
	since := c.nowFunc().Add(-activityWindow)
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: commitsPerPage},
	}

	var count int
	err := common.Do(ctx, func() error {
		commits, _, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return classify(err)
		}
		count = len(commits)
		return nil
	}, c.retryOpts...)
	if err != nil {
		return 0, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("获取 %s/%s 提交列表失败", owner, name), err)
	}
	return count, nil
}

// classify 4xx (限流除外) 重试也没用，直接标记为永久错误
func classify(err error) error {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return common.Permanent(err)
		}
	}
	return err
}

func toMetrics(r *github.Repository) *domain.ExternalMetrics {
	m := &domain.ExternalMetrics{
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		Watchers:    r.GetWatchersCount(),
		Language:    r.GetLanguage(),
		Size:        r.GetSize(),
		HasWiki:     r.GetHasWiki(),
		HasPages:    r.GetHasPages(),
		Topics:      r.Topics,
		Description: r.GetDescription(),
		CreatedAt:   timestamp(r.CreatedAt),
		UpdatedAt:   timestamp(r.UpdatedAt),
		PushedAt:    timestamp(r.PushedAt),
	}
	if m.Topics == nil {
		m.Topics = []string{}
	}
	if r.License != nil {
		m.License = r.License.GetName()
	}
	return m
}

func timestamp(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
