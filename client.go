package searchable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchable/internal/db"
	dbBleve "github.com/kailas-cloud/searchable/internal/db/bleve"
	dbElastic "github.com/kailas-cloud/searchable/internal/db/elastic"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/logger"
	documentrepo "github.com/kailas-cloud/searchable/internal/repository/document"
	searchrepo "github.com/kailas-cloud/searchable/internal/repository/search"
	indexinguc "github.com/kailas-cloud/searchable/internal/usecase/indexing"
)

// Client is the searchable SDK entry point. It owns the engine connection
// and is safe for concurrent use.
type Client struct {
	engine   db.Engine
	exec     *searchrepo.Repo
	indexing *indexinguc.Service
	obs      *observer
	index    string
}

// New creates a Client and checks that the engine answers.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{index: entity.DefaultIndex}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	engine, err := createEngine(cfg)
	if err != nil {
		return nil, err
	}

	if err := engine.Ping(ctx); err != nil {
		_ = engine.Close()
		return nil, fmt.Errorf("searchable: engine not ready: %w", err)
	}

	return wireClient(engine, cfg, obs), nil
}

func createEngine(cfg *clientConfig) (db.Engine, error) {
	switch cfg.driver {
	case driverElasticsearch:
		e, err := dbElastic.NewEngine(dbElastic.Config{
			Hosts:    cfg.hosts,
			Username: cfg.username,
			Password: cfg.password,
			Sniff:    cfg.sniff,
			Timeout:  cfg.timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("searchable: create elasticsearch engine: %w", err)
		}
		return e, nil
	case driverBleve:
		e, err := dbBleve.NewEngine(dbBleve.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("searchable: create bleve engine: %w", err)
		}
		return e, nil
	case "":
		return nil, errors.New("searchable: engine required (use WithElasticsearch or WithBleve)")
	default:
		return nil, fmt.Errorf("searchable: unknown driver %q", cfg.driver)
	}
}

func wireClient(engine db.Engine, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		engine:   engine,
		exec:     searchrepo.New(engine),
		indexing: indexinguc.New(documentrepo.New(engine), nil),
		obs:      obs,
		index:    cfg.index,
	}
}

// Close releases the engine.
func (c *Client) Close() error {
	if c.engine == nil {
		return nil
	}
	if err := c.engine.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	return nil
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// withLogger attaches the client logger so the pipeline logs through it.
func (c *Client) withLogger(ctx context.Context) context.Context {
	return logger.ContextWithLogger(ctx, c.obs.logger)
}
