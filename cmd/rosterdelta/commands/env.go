// Package commands implements CLI command handlers for rosterdelta.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/guildtools/rosterdelta/internal/baseline"
	"github.com/guildtools/rosterdelta/internal/config"
	"github.com/guildtools/rosterdelta/internal/delta"
	"github.com/guildtools/rosterdelta/internal/observability"
	"github.com/guildtools/rosterdelta/internal/period"
	"github.com/guildtools/rosterdelta/internal/roster"
	"github.com/guildtools/rosterdelta/pkg/persist"
)

// timeNow supplies "today" for date defaulting; tests swap it out.
var timeNow = time.Now

// env wires the configured storage, codec, and components for one command
// invocation. Close releases the storage backend.
type env struct {
	cfg           *config.Config
	logger        *slog.Logger
	store         persist.Store
	codec         persist.Codec
	baselines     *baseline.Store
	deltas        *delta.Store
	recorder      *delta.Recorder
	reconstructor *delta.Reconstructor
	aggregator    *period.Aggregator
	metrics       *observability.Metrics
}

func openEnv(configPath string, verbose bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	codec := newCodec(cfg)
	metrics := observability.New()

	baselines := baseline.NewStore(store, codec, logger)
	deltas := delta.NewStore(store, codec, logger)
	recorder := delta.NewRecorder(baselines, deltas, cfg.Rotation.ThresholdDays, logger, metrics)
	reconstructor := delta.NewReconstructor(baselines, deltas, logger, metrics)
	aggregator := period.NewAggregator(store, codec, reconstructor, cfg.Leaderboard.MinAALevel, logger)

	return &env{
		cfg:           cfg,
		logger:        logger,
		store:         store,
		codec:         codec,
		baselines:     baselines,
		deltas:        deltas,
		recorder:      recorder,
		reconstructor: reconstructor,
		aggregator:    aggregator,
		metrics:       metrics,
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// flushMetrics writes the run's metrics textfile when one is configured.
func (e *env) flushMetrics() {
	if e.cfg.Metrics.Textfile == "" {
		return
	}

	err := e.metrics.WriteTextfile(e.cfg.Metrics.Textfile)
	if err != nil {
		e.logger.Warn("metrics flush failed", "path", e.cfg.Metrics.Textfile, "error", err)
	}
}

func openStore(cfg *config.Config) (persist.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		return persist.NewBadgerStore(cfg.Storage.Root)
	default:
		return persist.NewFSStore(cfg.Storage.Root)
	}
}

func newCodec(cfg *config.Config) persist.Codec {
	switch cfg.Storage.Compression {
	case config.CompressionLZ4:
		return persist.NewLZ4JSONCodec()
	case config.CompressionNone:
		return persist.NewJSONCodec()
	default:
		return persist.NewGzipJSONCodec()
	}
}

// readSnapshot loads and validates an extractor snapshot document from path,
// or from stdin when path is "-".
func readSnapshot(path string) (*roster.Snapshot, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return roster.ParseSnapshot(data)
}
