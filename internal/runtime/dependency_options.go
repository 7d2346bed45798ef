package runtime

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-health-gate/internal/adapters"
	"github.com/architeacher/svc-health-gate/internal/adapters/repos"
	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/architeacher/svc-health-gate/internal/ports"
	"github.com/architeacher/svc-health-gate/internal/service"
	"github.com/hashicorp/vault/api"
)

type (
	DependencyOption func(*Dependencies) error
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithSecretStorage(),
		WithSecretStorageRepo(),
		WithConfigLoader(ctx),
		WithStorage(),
		WithCache(ctx),
		WithQueue(),
		WithMetrics(ctx),
		WithTracing(ctx),
		WithHealthChecks(),
	}
}

// WithSecretStorage initializes the Vault client using ENV config.
func WithSecretStorage() DependencyOption {
	return func(d *Dependencies) error {
		cfg := d.cfg.SecretStorage

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = cfg.Address
		vaultConfig.Timeout = cfg.Timeout

		if cfg.TLSSkipVerify {
			tlsConfig := &api.TLSConfig{
				Insecure: true,
			}
			if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to configure TLS: %w", err)
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("failed to create Vault client: %w", err)
		}

		// Skip namespace configuration for dev mode vault
		if cfg.Namespace != "" {
			client.SetNamespace(cfg.Namespace)
		}

		d.Infra.SecretStorageClient = client

		return nil
	}
}

func WithSecretStorageRepo() DependencyOption {
	return func(d *Dependencies) error {
		d.Repos.SecretStorageRepo = repos.NewVaultRepository(d.Infra.SecretStorageClient)

		return nil
	}
}

func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		d.configLoader = config.NewLoader(d.cfg, d.Repos.SecretStorageRepo, d.secretVersion)

		if !d.cfg.SecretStorage.Enabled {
			d.logger.Info().Msg("secret storage is disabled, skipping vault configuration loading")

			return nil
		}

		version, err := d.configLoader.Load(ctx, d.Repos.SecretStorageRepo, d.cfg)
		if err != nil {
			return fmt.Errorf("unable to load service configuration: %w", err)
		}

		d.secretVersion = version

		return nil
	}
}

// WithStorage opens the database pool. Connection establishment is lazy, so
// a down database does not prevent startup; it surfaces as a failing probe.
func WithStorage() DependencyOption {
	return func(d *Dependencies) error {
		storage, err := infrastructure.NewStorage(d.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}

		d.Infra.StorageClient = storage

		return nil
	}
}

// WithCache creates the cache client without a startup ping. A down cache
// surfaces as a failing probe instead of blocking startup.
func WithCache(_ context.Context) DependencyOption {
	return func(d *Dependencies) error {
		d.Infra.CacheClient = infrastructure.NewKeyDBClient(d.cfg.Cache, d.logger)

		return nil
	}
}

func WithQueue() DependencyOption {
	return func(d *Dependencies) error {
		if !d.cfg.Queue.Enabled {
			return nil
		}

		queueClient := infrastructure.NewQueue(d.cfg.Queue, d.logger)

		if err := queueClient.Connect(); err != nil {
			d.logger.Error().Err(err).Msg("failed to connect to queue, probes will report it as down")
		}

		d.Infra.QueueClient = queueClient

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		metrics, err := infrastructure.NewMetrics(ctx, *d.cfg, d.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}

		d.Infra.Metrics = metrics

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *Dependencies) error {
		if !d.cfg.Telemetry.Traces.Enabled {
			d.tracerShutdownFunc = func(_ context.Context) error {
				return nil
			}

			return nil
		}

		tracerShutdownFunc, err := infrastructure.InitGlobalTracer(ctx, d.cfg.Telemetry, d.cfg.AppConfig)
		if err != nil {
			d.logger.Error().Err(err).Msg("failed to initialize global tracer")

			return err
		}

		d.tracerShutdownFunc = tracerShutdownFunc

		return nil
	}
}

// WithHealthChecks registers the dependency probes. Registration order is
// presentation order: database first, cache second, then the optional checks.
func WithHealthChecks() DependencyOption {
	return func(d *Dependencies) error {
		checks := []ports.DependencyCheck{
			adapters.NewStorageCheck(d.Infra.StorageClient),
			adapters.NewCacheCheck(d.Infra.CacheClient),
		}

		if d.cfg.Queue.Enabled && d.Infra.QueueClient != nil {
			checks = append(checks, adapters.NewQueueCheck(d.Infra.QueueClient))
		}

		if d.cfg.Upstream.Enabled {
			checks = append(checks, adapters.NewUpstreamCheck(d.cfg.Upstream))
		}

		d.healthChecks = checks

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *Dependencies) error {
		healthChecker := adapters.NewHealthChecker(
			d.healthChecks,
			d.cfg.Readiness.Timeout,
			d.logger,
			d.Infra.Metrics,
		)

		app := service.NewApplicationService(healthChecker, d.logger)

		requestHandler := adapters.NewRequestHandler(app, d.logger)
		httpServer := initHTTPServer(d.cfg, d.logger, d.Infra.Metrics, requestHandler)

		d.Infra.HTTPServer = httpServer

		return nil
	}
}
