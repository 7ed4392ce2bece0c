// Package seed loads the sample catalogue and the first admin account.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"
)

// ProjectCreator 由 service.ProjectService 实现
type ProjectCreator interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
}

// UserCreator 由 service.AuthService 实现
type UserCreator interface {
	CreateUser(ctx context.Context, email, password string, role domain.Role, name string) (*domain.User, error)
}

// Admin 初始管理员账号
type Admin struct {
	Email    string
	Password string
	Name     string
}

// DefaultAdmin 环境变量未设置时使用，上线后必须改密码
var DefaultAdmin = Admin{
	Email:    "admin@survivalindex.org",
	Password: "admin123",
	Name:     "Admin User",
}

type Result struct {
	Created      int
	Skipped      int
	AdminCreated bool
}

// Run 写入示例项目和管理员。已存在的项目和账号跳过，可以重复执行
func Run(ctx context.Context, projects ProjectCreator, users UserCreator, admin Admin) (*Result, error) {
	res := &Result{}

	for _, sp := range Projects {
		p, err := sp.Project()
		if err != nil {
			return res, err
		}
		if _, err := projects.Create(ctx, p); err != nil {
			if common.HasCode(err, common.ErrCodeConflict) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed project %q: %w", sp.Name, err)
		}
		res.Created++
	}

	if admin.Email != "" {
		_, err := users.CreateUser(ctx, admin.Email, admin.Password, domain.RoleAdmin, admin.Name)
		switch {
		case err == nil:
			res.AdminCreated = true
		case common.HasCode(err, common.ErrCodeConflict):
			logging.Info(ctx, "admin already exists", slog.String("email", admin.Email))
		default:
			return res, fmt.Errorf("seed admin: %w", err)
		}
	}

	logging.Info(ctx, "seed complete",
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
		slog.Bool("admin_created", res.AdminCreated))
	return res, nil
}

// SampleProject 示例数据用的是旧的粗分类，入库前映射到封闭列表
type SampleProject struct {
	Name        string
	Type        domain.ProjectType
	Category    string
	Description string
	URL         string
	GithubURL   string
	Logo        string
	Tags        []string
	YearCreated int
}

// legacyCategories 旧分类 -> 封闭列表
var legacyCategories = map[string]domain.Category{
	"Database":                domain.CategoryDatabases,
	"Cache/Database":          domain.CategoryDatabases,
	"Search":                  domain.CategoryDatabases,
	"Version Control":         domain.CategoryDeveloperTools,
	"CI/CD":                   domain.CategoryDevOps,
	"Container Orchestration": domain.CategoryDevOps,
	"Web Server":              domain.CategoryNetworking,
	"Payments":                domain.CategoryCommerce,
	"Message Queue":           domain.CategoryMessaging,
	"Email":                   domain.CategoryMessaging,
	"Authentication":          domain.CategorySecurity,
	"Monitoring":              domain.CategoryMonitoring,
}

// MapCategory 先查旧分类表，再按封闭列表严格匹配
func MapCategory(s string) (domain.Category, error) {
	if c, ok := legacyCategories[s]; ok {
		return c, nil
	}
	return domain.ParseCategory(s)
}

func (sp SampleProject) Project() (*domain.Project, error) {
	category, err := MapCategory(sp.Category)
	if err != nil {
		return nil, common.Validation("sample %q: %v", sp.Name, err)
	}
	p := &domain.Project{
		Name:         sp.Name,
		Type:         sp.Type,
		Category:     category,
		Description:  sp.Description,
		URL:          sp.URL,
		GithubURL:    sp.GithubURL,
		Logo:         sp.Logo,
		Tags:         strings.Join(sp.Tags, ","),
		SelfHostable: sp.Type != domain.ProjectTypeSaaS,
	}
	if sp.YearCreated > 0 {
		year := sp.YearCreated
		p.YearCreated = &year
	}
	return p, nil
}

const (
	oss  = domain.ProjectTypeOpenSource
	saas = domain.ProjectTypeSaaS
)

var Projects = []SampleProject{
	{"PostgreSQL", oss, "Database", "Advanced open source relational database", "https://postgresql.org", "https://github.com/postgres/postgres", "🐘", []string{"sql", "acid", "enterprise"}, 1996},
	{"Git", oss, "Version Control", "Distributed version control system", "https://git-scm.com", "https://github.com/git/git", "📦", []string{"vcs", "distributed", "essential"}, 2005},
	{"Redis", oss, "Cache/Database", "In-memory data structure store", "https://redis.io", "https://github.com/redis/redis", "⚡", []string{"cache", "fast", "versatile"}, 2009},
	{"Stripe", saas, "Payments", "Payment processing platform", "https://stripe.com", "", "💳", []string{"payments", "api-first", "documentation"}, 2010},
	{"Nginx", oss, "Web Server", "High-performance HTTP server and reverse proxy", "https://nginx.org", "https://github.com/nginx/nginx", "🌐", []string{"web-server", "reverse-proxy", "stable"}, 2004},
	{"SQLite", oss, "Database", "Self-contained serverless SQL database", "https://sqlite.org", "", "🗄️", []string{"embedded", "zero-config", "reliable"}, 2000},
	{"MySQL", oss, "Database", "Popular open-source relational database", "https://mysql.com", "https://github.com/mysql/mysql-server", "🐬", []string{"sql", "relational", "web-scale"}, 1995},
	{"MongoDB", oss, "Database", "Document-oriented NoSQL database", "https://mongodb.com", "https://github.com/mongodb/mongo", "🍃", []string{"nosql", "document", "flexible-schema"}, 2009},
	{"PlanetScale", saas, "Database", "Serverless MySQL platform with branching", "https://planetscale.com", "", "🪐", []string{"mysql", "serverless", "branching"}, 2018},
	{"Supabase", saas, "Database", "Open source Firebase alternative", "https://supabase.com", "https://github.com/supabase/supabase", "⚡", []string{"postgres", "realtime", "auth"}, 2020},
	{"GitHub", saas, "Version Control", "Web-based Git repository hosting", "https://github.com", "", "🐙", []string{"git-hosting", "collaboration", "ci-cd"}, 2008},
	{"GitLab", saas, "Version Control", "Complete DevOps platform", "https://gitlab.com", "", "🦊", []string{"devops", "ci-cd", "self-hosted"}, 2011},
	{"Elasticsearch", oss, "Search", "Distributed search and analytics engine", "https://elastic.co", "https://github.com/elastic/elasticsearch", "🔍", []string{"search", "analytics", "logging"}, 2010},
	{"Algolia", saas, "Search", "Hosted search API", "https://algolia.com", "", "🔎", []string{"search-api", "instant", "typo-tolerant"}, 2012},
	{"Meilisearch", oss, "Search", "Lightning-fast search engine", "https://meilisearch.com", "https://github.com/meilisearch/meilisearch", "🔦", []string{"rust", "instant-search", "simple"}, 2018},
	{"Apache Kafka", oss, "Message Queue", "Distributed event streaming platform", "https://kafka.apache.org", "https://github.com/apache/kafka", "📨", []string{"streaming", "distributed", "high-throughput"}, 2011},
	{"RabbitMQ", oss, "Message Queue", "Open source message broker", "https://rabbitmq.com", "https://github.com/rabbitmq/rabbitmq-server", "🐰", []string{"amqp", "reliable", "flexible-routing"}, 2007},
	{"Kubernetes", oss, "Container Orchestration", "Production-grade container orchestration", "https://kubernetes.io", "https://github.com/kubernetes/kubernetes", "☸️", []string{"containers", "orchestration", "cloud-native"}, 2014},
	{"Docker", oss, "Container Orchestration", "Platform for containerized applications", "https://docker.com", "https://github.com/docker/docker-ce", "🐳", []string{"containers", "virtualization", "devops"}, 2013},
	{"Auth0", saas, "Authentication", "Identity platform for developers", "https://auth0.com", "", "🔐", []string{"identity", "sso", "oauth"}, 2013},
	{"Keycloak", oss, "Authentication", "Open source identity management", "https://keycloak.org", "https://github.com/keycloak/keycloak", "🔑", []string{"iam", "sso", "ldap"}, 2014},
	{"Clerk", saas, "Authentication", "Complete user management", "https://clerk.com", "", "👤", []string{"auth", "user-management", "react"}, 2020},
	{"Prometheus", oss, "Monitoring", "Monitoring system and time series database", "https://prometheus.io", "https://github.com/prometheus/prometheus", "🔥", []string{"metrics", "alerting", "time-series"}, 2012},
	{"Grafana", oss, "Monitoring", "Analytics and monitoring solution", "https://grafana.com", "https://github.com/grafana/grafana", "📊", []string{"dashboards", "visualization", "observability"}, 2014},
	{"Datadog", saas, "Monitoring", "Cloud monitoring platform", "https://datadoghq.com", "", "🐕", []string{"apm", "logs", "infrastructure"}, 2010},
	{"Caddy", oss, "Web Server", "Web server with automatic HTTPS", "https://caddyserver.com", "https://github.com/caddyserver/caddy", "🔒", []string{"automatic-https", "simple", "go"}, 2015},
	{"Cloudflare", saas, "Web Server", "Global cloud platform", "https://cloudflare.com", "", "☁️", []string{"cdn", "ddos", "workers"}, 2009},
	{"SendGrid", saas, "Email", "Cloud-based email delivery", "https://sendgrid.com", "", "📧", []string{"transactional", "marketing", "api"}, 2009},
	{"Postmark", saas, "Email", "Transactional email service", "https://postmarkapp.com", "", "📮", []string{"transactional", "reliable", "simple"}, 2010},
	{"GitHub Actions", saas, "CI/CD", "Automate workflows in GitHub", "https://github.com/features/actions", "", "⚙️", []string{"workflow", "yaml", "integrated"}, 2019},
	{"Jenkins", oss, "CI/CD", "Open source automation server", "https://jenkins.io", "https://github.com/jenkinsci/jenkins", "🎩", []string{"automation", "pipelines", "plugins"}, 2011},
	{"Valkey", oss, "Cache/Database", "Open source Redis fork by Linux Foundation", "https://valkey.io", "https://github.com/valkey-io/valkey", "🔑", []string{"redis-fork", "linux-foundation", "cache"}, 2024},
	{"Memcached", oss, "Cache/Database", "Distributed memory caching system", "https://memcached.org", "https://github.com/memcached/memcached", "🧠", []string{"cache", "simple", "distributed"}, 2003},
}
