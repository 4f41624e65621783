// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/jessicalanggg/trendlytics/internal/adapter/storage"
	"github.com/jessicalanggg/trendlytics/internal/config"
	"github.com/jessicalanggg/trendlytics/internal/server"
	"github.com/jessicalanggg/trendlytics/internal/service/analysis"
	"github.com/jessicalanggg/trendlytics/internal/service/llm"
	"github.com/jessicalanggg/trendlytics/internal/service/scraper"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	reportStore := storage.NewReportStore(db)
	csvStore := storage.NewCSVStore(cfg.Scraper.DataDir)

	// Initialize text generation client
	generator := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	generator.HTTPClient = &http.Client{Timeout: cfg.LLM.Timeout}

	// Initialize scrapers
	tiktok := scraper.NewTikTokScraper()
	tiktok.MaxVideos = cfg.Scraper.MaxVideos
	tiktok.HTTPClient = &http.Client{Timeout: cfg.Scraper.RequestTimeout}

	youtube := scraper.NewYouTubeScraper()
	youtube.HTTPClient = &http.Client{Timeout: cfg.Scraper.RequestTimeout}

	// Initialize analysis pipeline
	wordFilter := analysis.NewWordFilter(cfg.Analysis.GeoTerms, cfg.Analysis.StopWords)
	analyzer := analysis.NewAnalyzer(
		generator,
		wordFilter,
		reportStore,
		natsConn,
		analysis.AnalyzerConfig{
			ViewMultiplier: cfg.Analysis.ViewMultiplier,
			TopClips:       cfg.Analysis.TopClips,
			IdeaCount:      cfg.Analysis.IdeaCount,
			EventsTopic:    cfg.Analysis.EventsTopic,
			Extractor: analysis.ExtractorConfig{
				BatchSize:  cfg.Analysis.BatchSize,
				BatchDelay: cfg.Analysis.BatchDelay,
				TrimChars:  cfg.Analysis.TrimChars,
				MaxTokens:  analysis.DefaultExtractorConfig().MaxTokens,
			},
			Distiller: analysis.DistillerConfig{
				CoreKeywords:     cfg.Analysis.CoreKeywords,
				MinVideoFraction: cfg.Analysis.MinVideoFraction,
			},
		},
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		cfg.Analysis.EventsTopic,
		tiktok,
		youtube,
		analyzer,
		reportStore,
		csvStore,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := db.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
