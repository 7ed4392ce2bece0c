// Package config loads runtime settings from an optional YAML file, a .env file and the environment.
package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/judge"
	"survival-index/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Judge      JudgeConfig      `mapstructure:"judge"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Export     ExportConfig     `mapstructure:"export"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	FrontendURL string `mapstructure:"frontend_url"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type JudgeConfig struct {
	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type GitHubConfig struct {
	Token string `mapstructure:"token"`
}

type EvaluationConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	StaleDays   int           `mapstructure:"stale_days"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type NotifyConfig struct {
	FeishuWebhook string `mapstructure:"feishu_webhook"`
}

type AuthConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// 没有 SURVIVAL_ 前缀的常用环境变量，前缀版本优先
var envFallbacks = map[string][]string{
	"database.dsn":          {"DATABASE_URL"},
	"github.token":          {"GITHUB_TOKEN"},
	"notify.feishu_webhook": {"FEISHU_WEBHOOK"},
	"server.frontend_url":   {"FRONTEND_URL"},
	"server.environment":    {"NODE_ENV", "APP_ENV"},
}

// Load 读取配置。configFile 为空时在 ./configs 和当前目录查找 config.yaml，找不到就只用默认值和环境变量
func Load(ctx context.Context, configFile string) (Config, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "config"))

	// .env 不存在是正常情况
	if err := godotenv.Load(); err == nil {
		logging.Debug(logCtx, "loaded .env file")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SURVIVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envFallbacks {
		if err := v.BindEnv(append([]string{key, "SURVIVAL_" + envKey(key)}, names...)...); err != nil {
			return Config{}, common.WrapError(common.ErrCodeInvalidInput, "bind env "+key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Debug(logCtx, "config file not found, using defaults and env")
		} else {
			return Config{}, common.WrapError(common.ErrCodeInvalidInput, "read config", err)
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, common.WrapError(common.ErrCodeInvalidInput, "unmarshal config", err)
	}
	cfg.Judge.APIKey = resolveAPIKey(cfg.Judge)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.frontend_url", "http://localhost:5173")
	v.SetDefault("server.environment", "development")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("judge.provider", ProviderAnthropic)
	v.SetDefault("judge.api_key", "")
	v.SetDefault("judge.model", "")
	v.SetDefault("judge.max_tokens", 4096)
	v.SetDefault("github.token", "")
	v.SetDefault("evaluation.concurrency", 1)
	v.SetDefault("evaluation.timeout", 60*time.Second)
	v.SetDefault("evaluation.stale_days", 30)
	v.SetDefault("export.dir", "data")
	v.SetDefault("notify.feishu_webhook", "")
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// resolveAPIKey judge.api_key 没配置时按 provider 读取厂商的环境变量
func resolveAPIKey(j JudgeConfig) string {
	if j.APIKey != "" {
		return j.APIKey
	}
	switch j.Provider {
	case ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("ANTHROPIC_API_KEY")
	}
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate 检查取值是否合法
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return common.InvalidInput("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return common.InvalidInput("database.dsn is required (or set DATABASE_URL)")
	}
	switch c.Judge.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return common.InvalidInput("judge.provider must be anthropic or gemini, got %q", c.Judge.Provider)
	}
	if c.Evaluation.Concurrency < 1 {
		return common.InvalidInput("evaluation.concurrency must be at least 1")
	}
	if c.Evaluation.Timeout <= 0 {
		return common.InvalidInput("evaluation.timeout must be positive")
	}
	if c.Evaluation.StaleDays < 0 {
		return common.InvalidInput("evaluation.stale_days must not be negative")
	}
	return nil
}

// DemoMode api_key 为 demo_mode 时不调用模型
func (c Config) DemoMode() bool {
	return judge.IsDemoKey(c.Judge.APIKey)
}

// IsProduction 影响根路径返回的 mode
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
