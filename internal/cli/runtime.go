package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/internal/config"
	"github.com/aretw0/mutagraph/internal/logging"
	"github.com/aretw0/mutagraph/pkg/adapters/memory"
	"github.com/aretw0/mutagraph/pkg/adapters/redis"
	"github.com/aretw0/mutagraph/pkg/observability"
	"github.com/aretw0/mutagraph/pkg/persistence/middleware"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime holds everything a command needs to generate graphs.
type Runtime struct {
	Config    config.Config
	Generator *mutagraph.Generator
	Store     ports.TraceStore
	Metrics   *observability.Metrics
	Logger    *slog.Logger

	closers []io.Closer
}

// Build wires a generator from cfg. Traces are archived in Redis when an
// address is configured and in memory otherwise, sealed when an archive key
// is set. Metrics are registered on reg
// when it is not nil.
func Build(cfg config.Config, logOut io.Writer, reg prometheus.Registerer, extra ...mutagraph.Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}

	rt := &Runtime{
		Config: cfg,
		Logger: logging.NewWithFormat(logOut, level, logging.Format(cfg.LogFormat)),
	}

	if cfg.Redis.Addr != "" {
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		rt.Store = store
		rt.closers = append(rt.closers, store)
		rt.Logger.Debug("archiving traces in redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	} else {
		rt.Store = memory.NewStore()
	}

	enc, err := cfg.Encryption()
	if err != nil {
		return nil, err
	}
	if enc != nil {
		rt.Store = middleware.Chain(rt.Store, middleware.NewEncryptionMiddleware(*enc))
		rt.Logger.Debug("sealing archived traces")
	}

	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, mutagraph.WithLogger(rt.Logger), mutagraph.WithTraceStore(rt.Store))
	if reg != nil {
		rt.Metrics = observability.NewMetrics(reg)
		opts = append(opts, mutagraph.WithMetrics(rt.Metrics))
	}
	opts = append(opts, extra...)

	rt.Generator = mutagraph.New(opts...)
	return rt, nil
}

// Close releases the connections opened by Build.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
