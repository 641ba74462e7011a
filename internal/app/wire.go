package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	s3blob "goldarb/internal/blob/s3"
	"goldarb/internal/cache/redis"
	"goldarb/internal/config"
	"goldarb/internal/domain"
	"goldarb/internal/notify"
	"goldarb/internal/source"
	"goldarb/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
// Backends that a mode does not require are left nil.
type Dependencies struct {
	// Enabled source adapters, plus the full registered name set for the
	// latest-prices endpoint.
	Sources     []domain.SourceAdapter
	SourceNames []string

	// Stores
	QuoteStore       domain.QuoteStore
	OpportunityStore domain.OpportunityStore

	// Cache
	PriceCache domain.PriceCache

	// Blob storage
	BlobWriter domain.BlobWriter
	Archiver   domain.ReportArchiver

	// Notifications
	Notifier *notify.Notifier
}

// needsPostgres returns true for modes that require quote history.
func needsPostgres(mode string) bool {
	switch mode {
	case "watch", "server", "full":
		return true
	default:
		return false
	}
}

// needsRedis returns true for modes that keep the latest-price cache.
func needsRedis(mode string) bool {
	switch mode {
	case "watch", "server", "full":
		return true
	default:
		return false
	}
}

// needsS3 returns true for modes that archive cycle reports. Archival is
// additionally gated on a configured bucket.
func needsS3(mode string) bool {
	switch mode {
	case "watch", "full":
		return true
	default:
		return false
	}
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}
	mode := strings.ToLower(cfg.Mode)

	// --- Sources ---
	registry := source.NewRegistry(source.Sites, &http.Client{
		Timeout: cfg.Scan.Timeout.Duration,
	})
	deps.SourceNames = registry.Names()

	adapters, err := registry.Build(cfg.Sources.Enabled)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: sources: %w", err)
	}
	deps.Sources = adapters

	// --- PostgreSQL (only for modes that need history) ---
	if needsPostgres(mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.QuoteStore = postgres.NewQuoteStore(pool)
		deps.OpportunityStore = postgres.NewOpportunityStore(pool)
	}

	// --- Redis ---
	if needsRedis(mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.PriceCache = redis.NewPriceCache(redisClient)
	}

	// --- S3 report archival (optional: requires a bucket) ---
	if needsS3(mode) && cfg.S3.Bucket != "" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewReportArchiver(deps.BlobWriter)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
	}

	return deps, cleanup, nil
}
