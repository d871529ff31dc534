package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kaedema/anirec/internal/cache"
	"github.com/kaedema/anirec/internal/catalog"
	"github.com/kaedema/anirec/internal/config"
	"github.com/kaedema/anirec/internal/handler"
	"github.com/kaedema/anirec/internal/repository"
	"github.com/kaedema/anirec/internal/router"
	"github.com/kaedema/anirec/internal/service"
	"github.com/kaedema/anirec/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	ctx := context.Background()

	// ------------ PostgreSQL (optional) ---------------
	// Only backs staff display-name resolution; without it staff
	// factors fall back to synthesized names.
	var staffRepo *repository.Repository
	if cfg.DatabaseURL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to parse database config %v", err)
		}
		poolConfig.MaxConns = int32(cfg.DBPoolSize)
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Fatalf("failed to connect to database %v", err)
		}
		defer pool.Close()

		if err := waitForDB(ctx, pool); err != nil {
			log.Fatalf("database not ready: %v", err)
		}
		log.Println("connected to PostgreSQL")

		if err := migrateUp(ctx, pool); err != nil {
			log.Fatalf("failed to migrate up %v", err)
		}

		if err := checkSeed(ctx, pool); err != nil {
			log.Fatalf("failed to check seed %v", err)
		}

		staffRepo = repository.NewRepository(pool)
	} else {
		log.Println("DATABASE_URL not set, staff name resolution disabled")
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis url %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	fetchCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := fetchCache.Ping(ctx); err != nil {
		log.Fatalf("failed to connect to redis %v", err)
	}
	log.Println("connected to Redis")

	// ------------ Wiring ---------------
	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)

	var names service.NameResolver
	if staffRepo != nil {
		names = staffRepo
	}
	svc := service.NewService(catalogClient, fetchCache, names, cfg.SessionTTL)
	h := handler.NewHandler(svc)

	// ---------------- Server --------------------
	log.Printf("Server running on %s", cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), router.Setup(h)))
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Printf("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS staff_names (
			id BIGINT PRIMARY KEY,
			full_name TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	log.Println("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM staff_names").Scan(&count); err != nil {
		return fmt.Errorf("check staff names count: %w", err)
	}
	if count > 0 {
		log.Printf("database already seeded (%d staff names), skipping", count)
		return nil
	}
	return seeds.Setup(ctx, pool)
}
