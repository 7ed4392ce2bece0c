package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"survival-index/internal/adapter/repository"
	"survival-index/internal/domain"
	"survival-index/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Category
		wantErr bool
	}{
		{in: "Database", want: domain.CategoryDatabases},
		{in: "CI/CD", want: domain.CategoryDevOps},
		{in: "Email", want: domain.CategoryMessaging},
		{in: "Developer Tools", want: domain.CategoryDeveloperTools},
		{in: "Gardening", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MapCategory(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjects_AllValid(t *testing.T) {
	names := map[string]bool{}
	for _, sp := range Projects {
		p, err := sp.Project()
		require.NoError(t, err, sp.Name)
		assert.False(t, names[p.Name], "重复的示例项目 %s", p.Name)
		names[p.Name] = true

		_, err = domain.ParseProjectType(string(p.Type))
		assert.NoError(t, err)
		assert.NotEmpty(t, p.Description)
		require.NotNil(t, p.YearCreated)
	}
	assert.Len(t, Projects, 33)
}

func TestSampleProject_Project(t *testing.T) {
	p, err := Projects[2].Project()
	require.NoError(t, err)
	assert.Equal(t, "Redis", p.Name)
	assert.Equal(t, domain.CategoryDatabases, p.Category)
	assert.Equal(t, "cache,fast,versatile", p.Tags)
	assert.True(t, p.SelfHostable)
	assert.Equal(t, 2009, *p.YearCreated)

	p, err = Projects[3].Project()
	require.NoError(t, err)
	assert.Equal(t, "Stripe", p.Name)
	assert.False(t, p.SelfHostable)
	assert.Empty(t, p.GithubURL)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := repository.Open(repository.DriverSQLite, filepath.Join(t.TempDir(), "seed.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	projects := service.NewProjectService(store)
	auth := service.NewAuthService(store, time.Hour)
	admin := Admin{Email: "Root@Example.com", Password: "s3cret-pass", Name: "Root"}

	res, err := Run(ctx, projects, auth, admin)
	require.NoError(t, err)
	assert.Equal(t, len(Projects), res.Created)
	assert.Zero(t, res.Skipped)
	assert.True(t, res.AdminCreated)

	// 第二次执行全部跳过
	res, err = Run(ctx, projects, auth, admin)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Equal(t, len(Projects), res.Skipped)
	assert.False(t, res.AdminCreated)

	login, err := auth.Login(ctx, "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, login.User.Role)

	page, err := projects.List(ctx, domain.ProjectFilter{Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, len(Projects), page.Pagination.Total)
}

func TestRun_NoAdmin(t *testing.T) {
	ctx := context.Background()
	store, err := repository.Open(repository.DriverSQLite, filepath.Join(t.TempDir(), "seed.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	res, err := Run(ctx, service.NewProjectService(store), service.NewAuthService(store, time.Hour), Admin{})
	require.NoError(t, err)
	assert.False(t, res.AdminCreated)
	assert.Equal(t, len(Projects), res.Created)
}
