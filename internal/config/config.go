package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	WeChat   WeChatConfig   `mapstructure:"wechat"   validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig contains connection settings for the coordination store.
// All server instances must point at the same Redis so that locks and
// task records are shared across processes.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"   validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// WeChatConfig contains the mini-program credentials used for the
// jscode2session login exchange.
type WeChatConfig struct {
	AppID     string `mapstructure:"app_id"     validate:"required"`
	AppSecret string `mapstructure:"app_secret" validate:"required"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
}

// AnalysisConfig bounds the video-analysis flow. Both TTLs are safety
// ceilings: if the process crashes mid-analysis, the coordination store
// expires the lease and task record after these durations, unblocking
// subsequent submissions.
type AnalysisConfig struct {
	LockTTLMinutes int `mapstructure:"lock_ttl_minutes" validate:"required,gt=0"`
	TaskTTLMinutes int `mapstructure:"task_ttl_minutes" validate:"required,gt=0"`
}

// LockTTL returns the lease TTL as a duration.
func (c AnalysisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMinutes) * time.Minute
}

// TaskTTL returns the task-record TTL as a duration.
func (c AnalysisConfig) TaskTTL() time.Duration {
	return time.Duration(c.TaskTTLMinutes) * time.Minute
}
