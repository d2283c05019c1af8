package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"steamworth/internal/adapter/steam"
	"steamworth/internal/adapter/storage"
	"steamworth/internal/config"
	"steamworth/internal/core/domain"
	"steamworth/internal/core/service"
	"steamworth/internal/port"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := steam.NewClient(&http.Client{Timeout: cfg.HTTPTimeout})

	// Price cache backend: Redis when configured, local file otherwise
	var cacheStore port.CacheStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		cacheStore = storage.NewRedisStore(rdb, cfg.RedisKey)
		log.Printf("price cache backend: redis (%s)", cfg.RedisAddr)
	} else {
		cacheStore = storage.NewFileStore(cfg.CacheFile)
		log.Printf("price cache backend: file (%s)", cfg.CacheFile)
	}

	// Snapshot backend: Postgres, MySQL, or none
	var sink port.SnapshotSink
	switch {
	case cfg.PostgresDSN != "":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to connect postgres: %v", err)
		}
		defer pool.Close()
		pgSink := storage.NewPostgresSink(pool)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare postgres schema: %v", err)
		}
		sink = pgSink
		log.Println("snapshot backend: postgres")
	case cfg.MySQLDSN != "":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to open mysql: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		mySink := storage.NewMySQLSink(db)
		if err := mySink.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare mysql schema: %v", err)
		}
		sink = mySink
		log.Println("snapshot backend: mysql")
	default:
		log.Println("snapshot backend: none")
	}

	cache := service.NewPriceCache(cacheStore, cfg.AppID, cfg.Currency, cfg.CacheTTL)
	fetcher := service.NewInventoryFetcher(client, rate.NewLimiter(rate.Every(cfg.PageDelay), 1), cfg.PageSize, cfg.MaxPages)
	resolver := service.NewPriceResolver(client, cache, rate.NewLimiter(rate.Every(cfg.PaceInterval), 1), cfg.AppID, cfg.Currency)
	pipeline := service.NewValuationService(fetcher, resolver, cache, sink, cfg.Currency)

	start := time.Now()
	report, err := pipeline.Run(ctx, cfg.SteamID, cfg.AppID, cfg.ContextID)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			log.Fatalf("run aborted, inventory fetch rate limited: %v", err)
		}
		log.Fatalf("run failed: %v", err)
	}

	printSummary(report, time.Since(start))
}

func printSummary(report *domain.ValuationReport, elapsed time.Duration) {
	fmt.Println("==================================================")
	fmt.Printf("Run:          %s\n", report.RunID)
	fmt.Printf("Steam ID:     %s\n", report.SteamID)
	fmt.Printf("Item Types:   %d priced, %d failed\n", len(report.Lines), len(report.Failures))
	for _, f := range report.Failures {
		fmt.Printf("  unpriced:   %s (%s)\n", f.Name, f.Reason)
	}
	fmt.Printf("Total Value:  %s (currency %d)\n", report.Total.StringFixed(2), report.Currency)
	if len(report.Failures) > 0 {
		fmt.Println("Note:         total is a lower bound, some item types failed to price")
	}
	fmt.Printf("Duration:     %v\n", elapsed)
	fmt.Println("==================================================")
}
