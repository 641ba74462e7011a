package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies GOLDARB_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. A missing file is not
// an error: defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known GOLDARB_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Scan ──
	setDuration(&cfg.Scan.Interval, "GOLDARB_SCAN_INTERVAL")
	setDuration(&cfg.Scan.Timeout, "GOLDARB_SCAN_TIMEOUT")
	setInt(&cfg.Scan.Concurrency, "GOLDARB_SCAN_CONCURRENCY")
	setFloat64(&cfg.Scan.MinProfitPercentage, "GOLDARB_SCAN_MIN_PROFIT_PERCENTAGE")

	// ── Sources ──
	setStringSlice(&cfg.Sources.Enabled, "GOLDARB_SOURCES_ENABLED")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "GOLDARB_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "GOLDARB_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "GOLDARB_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "GOLDARB_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "GOLDARB_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "GOLDARB_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "GOLDARB_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "GOLDARB_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "GOLDARB_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "GOLDARB_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "GOLDARB_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "GOLDARB_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "GOLDARB_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "GOLDARB_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "GOLDARB_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "GOLDARB_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "GOLDARB_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "GOLDARB_S3_REGION")
	setStr(&cfg.S3.Bucket, "GOLDARB_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "GOLDARB_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "GOLDARB_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "GOLDARB_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "GOLDARB_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "GOLDARB_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "GOLDARB_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "GOLDARB_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "GOLDARB_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "GOLDARB_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "GOLDARB_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "GOLDARB_MODE")
	setStr(&cfg.LogLevel, "GOLDARB_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
