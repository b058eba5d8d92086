package cmd

import (
	"context"
	"io"
	"os"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/foundation/ember"
	"github.com/msto63/ember/internal/server"
	"github.com/msto63/ember/internal/store"
	"github.com/msto63/ember/pkg/core/cache"
	"github.com/msto63/ember/pkg/core/config"
	coreGrpc "github.com/msto63/ember/pkg/core/grpc"
)

// stdinName is shown for sources read from stdin
const stdinName = "<stdin>"

// readSource reads a source file, or stdin for "-"
func readSource(path string) (name, text string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return stdinName, "", mdwerror.Wrap(err, "failed to read stdin").
				WithCode(mdwerror.CodeInvalidInput)
		}
		return stdinName, string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return path, "", mdwerror.Wrap(err, "failed to read source").
			WithCode(code).
			WithDetail("path", path)
	}
	return path, string(data), nil
}

// openCache opens the parse result cache: an in-memory LRU in front of the
// SQLite store. It returns nil when the cache is disabled.
func openCache(cfg config.CacheConfig, logger *mdwlog.Logger) (*cache.Tiered, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	db, err := store.Open(store.Config{Path: cfg.Path, MaxEntries: cfg.MaxEntries})
	if err != nil {
		return nil, nil, err
	}
	memory := cache.New(cache.DefaultConfig())

	logger.Debug("parse cache opened", mdwlog.Fields{"path": cfg.Path})
	return cache.NewTiered(memory, db), func() {
		memory.Close()
		if err := db.Close(); err != nil {
			logger.WarnWithErr("failed to close parse cache", err)
		}
	}, nil
}

// openEngine creates the local engine with the configured limits and cache
func openEngine(cfg *config.Config, logger *mdwlog.Logger) (*ember.Engine, func(), error) {
	tiered, closeCache, err := openCache(cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := ember.Options{
		Logger:         logger,
		MaxInputLength: cfg.Parser.MaxInputLength,
		MaxDepth:       cfg.Parser.MaxDepth,
	}
	if tiered != nil {
		opts.Cache = tiered
	}
	return ember.NewEngine(opts), closeCache, nil
}

// dialRemote connects to a parse service
func dialRemote(addr string, logger *mdwlog.Logger) (*server.Client, func(), error) {
	conn, err := coreGrpc.Dial(coreGrpc.DefaultClientConfig(addr), logger)
	if err != nil {
		return nil, nil, err
	}
	return server.NewClient(conn), func() { conn.Close() }, nil
}

// callContext bounds a single remote call
func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), coreGrpc.DefaultClientConfig("").Timeout)
}
