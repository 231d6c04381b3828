/*
Package cli implements the intent-hub-mcp commands.

Every command that needs a live model goes through buildRuntime, which
assembles the extractor, model, mapper, router, reward engine, store and
learner from one configuration. The MCP protocol owns stdout, so all
logging goes to stderr.
*/
package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
	"github.com/khanglvm/intent-hub-mcp/internal/feature"
	"github.com/khanglvm/intent-hub-mcp/internal/learner"
	"github.com/khanglvm/intent-hub-mcp/internal/model"
	"github.com/khanglvm/intent-hub-mcp/internal/reward"
	"github.com/khanglvm/intent-hub-mcp/internal/router"
	"github.com/khanglvm/intent-hub-mcp/internal/samples"
	"github.com/khanglvm/intent-hub-mcp/internal/search"
	"github.com/khanglvm/intent-hub-mcp/internal/storage"
	"github.com/khanglvm/intent-hub-mcp/internal/toolmap"
)

// runtime holds the assembled components behind a command.
type runtime struct {
	cfg     *config.Config
	learner *learner.Learner
	store   *storage.SQLiteStore
	logger  *zap.Logger
}

// newLogger builds the process logger. Stdout carries the MCP protocol,
// so everything goes to stderr.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig loads the configuration from an explicit path or the default
// location, creating the default file when nothing exists yet.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.LoadOrCreate()
}

// buildRuntime assembles the learner and its dependencies. The returned
// runtime owns the store; shut the learner down to release it.
func buildRuntime(cfg *config.Config, dbPath string, logger *zap.Logger) (*runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor := feature.NewExtractor(cfg.Features, buildIDF(cfg))

	m := model.New(cfg.SortedIntents(), extractor.Fingerprint(),
		cfg.Learning.LearningRate, cfg.Learning.RunnerUpDecay)

	if dbPath == "" {
		var err error
		dbPath, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	store := storage.NewStore(dbPath, logger)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	l, err := learner.New(cfg, extractor, m,
		toolmap.NewMapper(cfg),
		router.NewRouter(cfg.Routing),
		reward.NewEngine(cfg.Reward),
		store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, learner: l, store: store, logger: logger}, nil
}

// buildIDF returns the IDF table over the seed corpus when IDF weighting
// is enabled, nil otherwise. The table must be identical across runs or
// persisted snapshots stop loading; the seed corpus is fixed, so it is.
func buildIDF(cfg *config.Config) *feature.IDFTable {
	if cfg.Features == nil || !cfg.Features.UseIDF {
		return nil
	}
	return feature.BuildIDFTable(samples.Texts(samples.Seed()))
}

// buildIndexer creates the in-memory sample index over the seed corpus.
func buildIndexer() (*search.Indexer, error) {
	idx, err := search.NewIndexer()
	if err != nil {
		return nil, err
	}
	if err := idx.IndexSamples(samples.Seed()); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}
