package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	Segmenter   SegmenterConfig   `yaml:"segmenter"`
	Corrections CorrectionsConfig `yaml:"corrections"`
	Notify      NotifyConfig      `yaml:"notify"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"              env:"SERVER_HOST"              env-default:"0.0.0.0"`
	Port            int           `yaml:"port"              env:"SERVER_PORT"              env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"      env:"SERVER_READ_TIMEOUT"      env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"     env:"SERVER_WRITE_TIMEOUT"     env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"      env:"SERVER_IDLE_TIMEOUT"      env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"  env:"SERVER_SHUTDOWN_TIMEOUT"  env-default:"10s"`
	MaxRequestBytes int64         `yaml:"max_request_bytes" env:"SERVER_MAX_REQUEST_BYTES" env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds access token settings. Tokens are issued elsewhere; this
// service only validates them.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"langcorrect"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SegmenterConfig controls which tokenizers are loaded at startup. Disabled
// tokenizers fall back to splitting on sentence terminators.
type SegmenterConfig struct {
	Punkt    bool `yaml:"punkt"    env:"SEGMENTER_PUNKT"    env-default:"true"`
	Japanese bool `yaml:"japanese" env:"SEGMENTER_JAPANESE" env-default:"true"`
	Chinese  bool `yaml:"chinese"  env:"SEGMENTER_CHINESE"  env-default:"true"`
}

// CorrectionsConfig holds limits for entries and correction batches.
type CorrectionsConfig struct {
	MaxBodyLength       int `yaml:"max_body_length"       env:"CORRECTIONS_MAX_BODY_LENGTH"       env-default:"20000"`
	MaxBatchItems       int `yaml:"max_batch_items"       env:"CORRECTIONS_MAX_BATCH_ITEMS"       env-default:"200"`
	MaxCorrectionLength int `yaml:"max_correction_length" env:"CORRECTIONS_MAX_CORRECTION_LENGTH" env-default:"2000"`
	MaxNoteLength       int `yaml:"max_note_length"       env:"CORRECTIONS_MAX_NOTE_LENGTH"       env-default:"2000"`
	MaxCommentLength    int `yaml:"max_comment_length"    env:"CORRECTIONS_MAX_COMMENT_LENGTH"    env-default:"5000"`
	UpsertRetries       int `yaml:"upsert_retries"        env:"CORRECTIONS_UPSERT_RETRIES"        env-default:"3"`
	// WritesPerMinute rate-limits correction batches per client IP. 0 disables it.
	WritesPerMinute int `yaml:"writes_per_minute" env:"CORRECTIONS_WRITES_PER_MINUTE" env-default:"60"`
}

// NotifyConfig selects where notification events go.
type NotifyConfig struct {
	Driver   string `yaml:"driver"    env:"NOTIFY_DRIVER"    env-default:"log"`
	RedisURL string `yaml:"redis_url" env:"NOTIFY_REDIS_URL"`
	Channel  string `yaml:"channel"   env:"NOTIFY_CHANNEL"   env-default:"langcorrect:notifications"`
}

// Notification drivers.
const (
	NotifyDriverLog   = "log"
	NotifyDriverRedis = "redis"
)

// Origins returns the configured CORS origins as a trimmed list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
