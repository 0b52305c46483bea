package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}

	if c.Server.MaxRequestBytes <= 0 {
		return fmt.Errorf("server.max_request_bytes must be > 0 (got %d)", c.Server.MaxRequestBytes)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Corrections.validate(); err != nil {
		return fmt.Errorf("corrections: %w", err)
	}

	if err := c.Notify.validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

func (c *CorrectionsConfig) validate() error {
	if c.MaxBodyLength <= 0 {
		return fmt.Errorf("max_body_length must be > 0 (got %d)", c.MaxBodyLength)
	}
	if c.MaxBatchItems <= 0 {
		return fmt.Errorf("max_batch_items must be > 0 (got %d)", c.MaxBatchItems)
	}
	if c.MaxCorrectionLength <= 0 || c.MaxNoteLength <= 0 || c.MaxCommentLength <= 0 {
		return fmt.Errorf("length limits must be > 0")
	}
	if c.UpsertRetries < 1 || c.UpsertRetries > 10 {
		return fmt.Errorf("upsert_retries must be in [1, 10] (got %d)", c.UpsertRetries)
	}
	if c.WritesPerMinute < 0 {
		return fmt.Errorf("writes_per_minute must be non-negative (got %d)", c.WritesPerMinute)
	}
	return nil
}

func (n *NotifyConfig) validate() error {
	switch n.Driver {
	case NotifyDriverLog:
	case NotifyDriverRedis:
		if n.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis driver")
		}
		if n.Channel == "" {
			return fmt.Errorf("channel is required for the redis driver")
		}
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", NotifyDriverLog, NotifyDriverRedis, n.Driver)
	}
	return nil
}
