package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"survival-index/internal/common"
	"survival-index/internal/config"
	"survival-index/internal/judge"
	"survival-index/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv 每个测试一个独立的 sqlite 库和导出目录
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SURVIVAL_DATABASE_DRIVER", "sqlite")
	t.Setenv("SURVIVAL_DATABASE_DSN", filepath.Join(dir, "cli.sqlite"))
	t.Setenv("SURVIVAL_EXPORT_DIR", filepath.Join(dir, "data"))
	t.Setenv("SURVIVAL_JUDGE_API_KEY", judge.DemoModeKey)
	t.Setenv("SURVIVAL_LOG_LEVEL", "error")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("FEISHU_WEBHOOK", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []uint
		wantErr bool
	}{
		{name: "单个 ID", args: []string{"7"}, want: []uint{7}},
		{name: "多个 ID 保持顺序", args: []string{"3", "1", "2"}, want: []uint{3, 1, 2}},
		{name: "零不合法", args: []string{"0"}, wantErr: true},
		{name: "负数不合法", args: []string{"-1"}, wantErr: true},
		{name: "非数字", args: []string{"1", "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, common.HasCode(err, common.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdminFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_NAME", "")
	assert.Equal(t, seed.DefaultAdmin, adminFromEnv())

	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "long-secret")
	admin := adminFromEnv()
	assert.Equal(t, "ops@example.com", admin.Email)
	assert.Equal(t, "long-secret", admin.Password)
	assert.Equal(t, seed.DefaultAdmin.Name, admin.Name)
}

func TestBuildJudge(t *testing.T) {
	ctx := context.Background()

	t.Run("演示模式不需要模型", func(t *testing.T) {
		j, closeFn, err := buildJudge(ctx, config.Config{Judge: config.JudgeConfig{Provider: config.ProviderAnthropic, APIKey: judge.DemoModeKey}})
		require.NoError(t, err)
		assert.Nil(t, closeFn)
		assert.True(t, j.DemoMode())
		assert.Equal(t, judge.DemoModelName, j.ModelName())
	})

	t.Run("缺少凭证", func(t *testing.T) {
		_, _, err := buildJudge(ctx, config.Config{Judge: config.JudgeConfig{Provider: config.ProviderAnthropic}})
		require.Error(t, err)
		assert.True(t, common.HasCode(err, common.ErrCodeInvalidInput))
	})

	t.Run("Claude 客户端", func(t *testing.T) {
		j, closeFn, err := buildJudge(ctx, config.Config{Judge: config.JudgeConfig{Provider: config.ProviderAnthropic, APIKey: "sk-test", Model: "claude-custom"}})
		require.NoError(t, err)
		assert.Nil(t, closeFn)
		assert.False(t, j.DemoMode())
		assert.Equal(t, "claude-custom", j.ModelName())
	})
}

func TestRootCmd_HelpWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SURVIVAL_DATABASE_DSN", "")
	t.Setenv("DATABASE_URL", "")

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "seed")
	assert.Contains(t, out, "reevaluate-stale")
}

func TestCLI_SeedEvaluateExport(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_NAME", "")

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "33 projects created")
	assert.Contains(t, out, seed.DefaultAdmin.Email)
	assert.Contains(t, out, "default admin password")

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "0 projects created, 33 already present")

	out, err = run(t, "evaluate", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ PostgreSQL:")
	assert.Contains(t, out, "[demo]")

	out, err = run(t, "batch", "2", "999")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Git:")
	assert.Contains(t, out, "❌ project 999")
	assert.Contains(t, out, "total 2, successful 1, failed 1")

	out, err = run(t, "export", "--what", "ai-ratings")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 records)")

	out, err = run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "(33 records)")
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	out, err = run(t, "export", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "projects 33, ai ratings 2")
}

func TestCLI_CreateUser(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "create-user", "--email", "Editor@Example.com", "--password", "editor-pass", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin user editor@example.com")

	_, err = run(t, "create-user", "--email", "editor@example.com", "--password", "other-pass")
	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeConflict))

	_, err = run(t, "create-user", "--email", "x@example.com")
	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeInvalidInput))
}

func TestCLI_InvalidArgs(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "导出目标未知", args: []string{"export", "--what", "users"}},
		{name: "项目 ID 非法", args: []string{"evaluate", "abc"}},
		{name: "cron 表达式非法", args: []string{"schedule", "--cron", "every day"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.True(t, common.HasCode(err, common.ErrCodeInvalidInput))
		})
	}
}
