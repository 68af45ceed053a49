package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchable/internal/config"
	"github.com/kailas-cloud/searchable/internal/db"
	dbBleve "github.com/kailas-cloud/searchable/internal/db/bleve"
	dbElastic "github.com/kailas-cloud/searchable/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/searchable/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/searchable/internal/db/sqlite"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	documentrepo "github.com/kailas-cloud/searchable/internal/repository/document"
	recordrepo "github.com/kailas-cloud/searchable/internal/repository/record"
	searchrepo "github.com/kailas-cloud/searchable/internal/repository/search"
	healthuc "github.com/kailas-cloud/searchable/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/searchable/internal/usecase/indexing"
	recorduc "github.com/kailas-cloud/searchable/internal/usecase/record"
	searchuc "github.com/kailas-cloud/searchable/internal/usecase/search"
)

// app is the composition root shared by all commands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	engine  db.Engine
	store   db.RecordStore
	catalog *entity.Catalog

	records  *recorduc.Service
	searches *searchuc.Registry
	indexing *indexinguc.Service
	health   *healthuc.Service
}

// newApp opens the engine and the record store and builds the services.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("resolve entities: %w", err)
	}

	engine, err := openEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	store, err := openRecordStore(cfg.Records)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Records.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		_ = engine.Close()
		return nil, fmt.Errorf("record store not ready: %w", err)
	}

	recRepo := recordrepo.New(store)
	docRepo := documentrepo.New(engine)

	indexing := indexinguc.New(docRepo, recRepo).
		WithReindex(cfg.Indexing.ReindexWorkers, cfg.Indexing.ReindexBatchSize)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		engine:   engine,
		store:    store,
		catalog:  catalog,
		records:  recorduc.New(recRepo, catalog, indexing),
		searches: searchuc.NewRegistry(catalog, searchrepo.New(engine), recRepo),
		indexing: indexing,
		health:   healthuc.New(engine, store),
	}

	logger.Info("Backends ready",
		zap.String("engine", cfg.Engine.Driver),
		zap.String("records", cfg.Records.Driver),
		zap.Strings("entities", catalog.Names()),
	)
	return a, nil
}

// Close releases the backends.
func (a *app) Close() {
	a.store.Close()
	if err := a.engine.Close(); err != nil {
		a.logger.Warn("Engine close failed", zap.Error(err))
	}
}

func openEngine(cfg config.EngineConfig) (db.Engine, error) {
	switch cfg.Driver {
	case config.DriverElasticsearch:
		e, err := dbElastic.NewEngine(dbElastic.Config{
			Hosts:    cfg.Hosts,
			Username: cfg.Username,
			Password: cfg.Password,
			Sniff:    cfg.Sniff,
			Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("open elasticsearch engine: %w", err)
		}
		return e, nil
	case config.DriverBleve:
		e, err := dbBleve.NewEngine(dbBleve.Config{Path: cfg.Path})
		if err != nil {
			return nil, fmt.Errorf("open bleve engine: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown engine driver %q", cfg.Driver)
	}
}

func openRecordStore(cfg config.RecordsConfig) (db.RecordStore, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis record store: %w", err)
		}
		return s, nil
	case config.DriverSQLite:
		s, err := dbSQLite.NewStore(dbSQLite.Config{DSN: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("open sqlite record store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown records driver %q", cfg.Driver)
	}
}
