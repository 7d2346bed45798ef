package adapters

import (
	"context"
	"fmt"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/architeacher/svc-health-gate/internal/domain"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/go-resty/resty/v2"
)

// The concrete dependency checks. Each one performs a single minimal
// round-trip against its dependency and folds every failure mode, transport
// errors and unexpected replies alike, into a ProbeOutcome. None of them
// retries and none of them remembers anything between invocations.

type (
	// StorageCheck probes the relational datastore with a trivial query.
	StorageCheck struct {
		storage *infrastructure.Storage
	}

	// CacheCheck probes the cache with a single PING.
	CacheCheck struct {
		cache *infrastructure.KeydbClient
	}

	// QueueCheck probes the message broker connection.
	QueueCheck struct {
		queue *infrastructure.Queue
	}

	// UpstreamCheck probes an upstream HTTP service with one GET request.
	UpstreamCheck struct {
		name   string
		url    string
		client *resty.Client
	}
)

func NewStorageCheck(storage *infrastructure.Storage) StorageCheck {
	return StorageCheck{storage: storage}
}

func (c StorageCheck) Name() string {
	return "database"
}

func (c StorageCheck) Probe(ctx context.Context) domain.ProbeOutcome {
	if err := c.storage.RoundTrip(ctx); err != nil {
		return domain.ProbeOutcome{OK: false, Detail: err.Error()}
	}

	return domain.ProbeOutcome{OK: true}
}

func NewCacheCheck(cache *infrastructure.KeydbClient) CacheCheck {
	return CacheCheck{cache: cache}
}

func (c CacheCheck) Name() string {
	return "cache"
}

func (c CacheCheck) Probe(ctx context.Context) domain.ProbeOutcome {
	if err := c.cache.Ping(ctx); err != nil {
		return domain.ProbeOutcome{OK: false, Detail: err.Error()}
	}

	return domain.ProbeOutcome{OK: true}
}

func NewQueueCheck(queue *infrastructure.Queue) QueueCheck {
	return QueueCheck{queue: queue}
}

func (c QueueCheck) Name() string {
	return "queue"
}

func (c QueueCheck) Probe(ctx context.Context) domain.ProbeOutcome {
	if err := c.queue.RoundTrip(ctx); err != nil {
		return domain.ProbeOutcome{OK: false, Detail: err.Error()}
	}

	return domain.ProbeOutcome{OK: true}
}

func NewUpstreamCheck(cfg config.UpstreamConfig) UpstreamCheck {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return UpstreamCheck{
		name:   cfg.Name,
		url:    cfg.URL,
		client: client,
	}
}

func (c UpstreamCheck) Name() string {
	return c.name
}

func (c UpstreamCheck) Probe(ctx context.Context) domain.ProbeOutcome {
	resp, err := c.client.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return domain.ProbeOutcome{OK: false, Detail: fmt.Sprintf("upstream request failed: %v", err)}
	}

	// A 5xx answer arrives without an error, the same way a false reply from
	// a connection test does. Treat it as a failed probe, not an exception.
	if resp.StatusCode() >= 500 {
		return domain.ProbeOutcome{OK: false, Detail: fmt.Sprintf("upstream returned status %d", resp.StatusCode())}
	}

	return domain.ProbeOutcome{OK: true}
}
