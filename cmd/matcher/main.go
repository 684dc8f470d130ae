package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joripage/batch-matcher/config"
	"github.com/joripage/batch-matcher/pkg/feed"
	postgres_wrapper "github.com/joripage/batch-matcher/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/batch-matcher/pkg/infra/redis"
	kafkawrapper "github.com/joripage/batch-matcher/pkg/kafka_wrapper"
	"github.com/joripage/batch-matcher/pkg/logging"
	"github.com/joripage/batch-matcher/pkg/orderbook"
	"github.com/joripage/batch-matcher/pkg/repo"
	"github.com/joripage/batch-matcher/pkg/report"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: load config: %v\n", err)
		return 1
	}
	applyOptions(cfg, opts)

	if cfg.Feed.Path == "" || cfg.Ticker == "" || cfg.Algorithm == "" {
		fmt.Fprintln(os.Stderr, errUsage)
		return 1
	}
	algo, err := orderbook.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		fmt.Fprintln(os.Stderr, errUsageAlgo)
		return 1
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))
	defer logger.Sync() // nolint
	defer logger.ReplaceGlobals()()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "matching run started",
		zap.String("service", cfg.ServiceName),
		zap.String("ticker", cfg.Ticker),
		zap.String("algorithm", algo.String()),
		zap.String("input", cfg.Feed.Path))

	book := orderbook.NewOrderBook(cfg.Ticker, logger.Zap(ctx))

	src, err := feed.Open(cfg.Feed)
	if err != nil {
		logger.Error(ctx, "open order feed failed", zap.Error(err))
		return 1
	}
	stats, err := feed.Load(ctx, src, book, cfg.Feed.MaxRetries, logger.Zap(ctx))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "ERROR: Could not open the given file")
		}
		logger.Error(ctx, "load order feed failed", zap.Error(err))
		return 1
	}
	logger.Info(ctx, "order feed loaded",
		zap.Int("read", stats.Read),
		zap.Int("admitted", stats.Admitted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("rejected", stats.Rejected))

	start := time.Now()
	if err := book.Match(algo); err != nil {
		logger.Error(ctx, "matching pass failed", zap.Error(err))
		return 1
	}
	logger.Info(ctx, "matching pass done",
		zap.Int("fills", book.PendingFills()),
		zap.Duration("elapsed", time.Since(start)))

	r := report.NewReport(runID, algo, book)
	if err := report.Text(os.Stdout, r); err != nil {
		logger.Error(ctx, "write report failed", zap.Error(err))
		return 1
	}

	publishers, closeAll := buildPublishers(ctx, cfg, logger)
	defer closeAll()
	if len(publishers) > 0 {
		// failures are logged per publisher and do not change the exit code
		_ = report.PublishAll(ctx, r, logger.Zap(ctx), publishers...)
	}

	return 0
}

func applyOptions(cfg *config.AppConfig, opts options) {
	if opts.input != "" {
		cfg.Feed.Path = opts.input
	}
	if opts.format != "" {
		cfg.Feed.Format = opts.format
	}
	if opts.ticker != "" {
		cfg.Ticker = opts.ticker
	}
	if opts.algo != "" {
		cfg.Algorithm = opts.algo
	}
}

// buildPublishers connects the stores named in cfg. A store that cannot be
// reached is logged and left out.
func buildPublishers(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) ([]report.Publisher, func()) {
	var (
		publishers []report.Publisher
		closers    []func()
	)

	if cfg.Kafka != nil && len(cfg.Kafka.Brokers) > 0 {
		producer := kafkawrapper.NewProducer(*cfg.Kafka)
		publishers = append(publishers, report.NewKafkaPublisher(producer))
		closers = append(closers, func() {
			if err := producer.Close(context.Background()); err != nil {
				logger.Warn(ctx, "close kafka producer failed", zap.Error(err))
			}
		})
	}

	if cfg.Redis != nil && cfg.Redis.ConnectionURL != "" {
		client, err := redis_wrapper.InitRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Error(ctx, "connect redis failed", zap.Error(err))
		} else {
			ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
			publishers = append(publishers, report.NewRedisPublisher(client, cfg.Redis.KeyPrefix, ttl))
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	if cfg.ReportDB != nil && cfg.ReportDB.DataSource != "" {
		db, err := postgres_wrapper.InitPostgresWithBackoff(ctx, cfg.ReportDB)
		if err != nil {
			logger.Error(ctx, "connect report db failed", zap.Error(err))
		} else {
			publishers = append(publishers, report.NewSQLPublisher(repo.NewRepo(db).Fill()))
			closers = append(closers, func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			})
		}
	}

	if cfg.Archive != nil && cfg.Archive.Path != "" {
		archive, err := report.OpenArchive(cfg.Archive.Path)
		if err != nil {
			logger.Error(ctx, "open report archive failed", zap.Error(err))
		} else {
			publishers = append(publishers, archive)
			closers = append(closers, func() { _ = archive.Close() })
		}
	}

	return publishers, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
