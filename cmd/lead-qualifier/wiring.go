package main

import (
	"context"
	"fmt"
	"time"

	"lead-qualifier/internal/common/aws"
	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/common/database"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/common/observability"
	"lead-qualifier/internal/conversation"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/ledger"
	"lead-qualifier/internal/notify"
	"lead-qualifier/internal/transport/httpapi"
)

// app holds everything the serve and workers commands share.
type app struct {
	industries *industry.Registry
	repository conversation.Repository
	ledger     ledger.Ledger
	notifier   conversation.Notifier
	obs        *observability.Observability
	checks     map[string]httpapi.Check
	closers    []func() error
	logger     logger.Logger
}

func buildApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{checks: make(map[string]httpapi.Check), logger: log}

	registry, err := industry.Load(cfg.Industries.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("load industries: %w", err)
	}
	a.industries = registry

	obs, err := observability.New(cfg.App.Name, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}
	a.obs = obs

	if a.repository, err = a.buildRepository(ctx, cfg); err != nil {
		a.close()
		return nil, err
	}
	if a.ledger, err = a.buildLedger(ctx, cfg); err != nil {
		a.close()
		return nil, err
	}
	if a.notifier, err = a.buildNotifier(ctx, cfg); err != nil {
		a.close()
		return nil, err
	}

	log.Info("application wired", map[string]interface{}{
		"industries":    registry.Len(),
		"conversations": cfg.Storage.Conversations,
		"ledger":        cfg.Storage.Ledger,
		"notifications": a.notifier != nil,
	})
	return a, nil
}

func (a *app) service(cfg *config.Config) *conversation.Service {
	return conversation.NewService(conversation.LoadConfig(cfg), conversation.Dependencies{
		Repository:    a.repository,
		Industries:    a.industries,
		Ledger:        a.ledger,
		Notifier:      a.notifier,
		Observability: a.obs,
	}, a.logger)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.WithError(err).Warn("close failed", nil)
		}
	}
	a.closers = nil

	if a.obs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.obs.Shutdown(ctx); err != nil {
			a.logger.WithError(err).Warn("observability shutdown failed", nil)
		}
	}
}

func (a *app) buildRepository(ctx context.Context, cfg *config.Config) (conversation.Repository, error) {
	if cfg.Storage.Conversations != config.ConversationStoreRedis {
		return conversation.NewMemoryRepository(), nil
	}

	rc := database.NewRedis(cfg.Database.Redis)
	if err := retryWithBackoff(ctx, func() error { return rc.Ping(ctx) }, 10, 2*time.Second, a.logger, "Redis connection"); err != nil {
		_ = rc.Close()
		return nil, err
	}
	a.closers = append(a.closers, rc.Close)
	a.checks["redis"] = rc.Ping

	ttl := time.Duration(cfg.Database.Redis.TTL) * time.Second
	return conversation.NewRedisRepository(rc.Client, cfg.Database.Redis.KeyPrefix, ttl), nil
}

func (a *app) buildLedger(ctx context.Context, cfg *config.Config) (ledger.Ledger, error) {
	switch cfg.Storage.Ledger {
	case config.LedgerFile:
		return ledger.NewFileLedger(cfg.Storage.LedgerFile, a.logger)

	case config.LedgerPostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			return nil
		}, 15, 2*time.Second, a.logger, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		a.checks["postgres"] = pg.Ping

		l := ledger.NewPostgresLedger(pg.DB)
		if err := l.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return l, nil

	case config.LedgerElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, err
		}
		if err := retryWithBackoff(ctx, func() error { return es.Ping(ctx) }, 15, 2*time.Second, a.logger, "Elasticsearch connection"); err != nil {
			return nil, err
		}
		a.checks["elasticsearch"] = es.Ping
		return ledger.NewElasticsearchLedger(es.Client, cfg.Database.Elasticsearch.Index), nil

	default:
		return ledger.NewMemoryLedger(), nil
	}
}

// buildNotifier returns nil when no channel is enabled so the service skips
// notification entirely.
func (a *app) buildNotifier(ctx context.Context, cfg *config.Config) (conversation.Notifier, error) {
	n := cfg.Notifications
	if !n.AnyEnabled() {
		return nil, nil
	}

	var channels []notify.Channel
	if n.SMS.Enabled || n.Email.Enabled {
		clients, err := aws.NewClients(ctx, n.AWS.Region)
		if err != nil {
			return nil, err
		}
		if n.SMS.Enabled {
			channels = append(channels, notify.NewSMSNotifier(clients.SNS, n.SMS.PhoneNumber))
		}
		if n.Email.Enabled {
			channels = append(channels, notify.NewEmailNotifier(clients.SES, n.Email.From, n.Email.To))
		}
	}
	if n.Webhook.Enabled {
		channels = append(channels, notify.NewWebhookNotifier(n.Webhook.URL, config.GetDuration(n.Webhook.Timeout)))
	}
	return notify.NewDispatcher(n.Statuses, a.logger, channels...), nil
}

// retryWithBackoff runs operation until it succeeds, doubling the delay after
// each failure.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			log.Info(operationName+" established", nil)
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.WithError(err).Warn(operationName+" failed, retrying", map[string]interface{}{
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", operationName, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
