// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"github.com/jessicalanggg/trendlytics/internal/adapter/storage"
	"github.com/jessicalanggg/trendlytics/internal/config"
	"github.com/jessicalanggg/trendlytics/internal/domain/media"
	"github.com/jessicalanggg/trendlytics/internal/server/handlers"
	"github.com/jessicalanggg/trendlytics/internal/service/analysis"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	eventsTopic string,
	profiles media.ProfileSource,
	channels media.ChannelSource,
	analyzer *analysis.Analyzer,
	reportStore *storage.ReportStore,
	csvStore *storage.CSVStore,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(5 * time.Minute))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analyzeHandler := handlers.NewAnalyzeHandler(profiles, channels, analyzer, csvStore)
	reportHandler := handlers.NewReportHandler(reportStore)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// TikTok API
			r.Route("/tiktok", func(r chi.Router) {
				r.Post("/analyze", analyzeHandler.TikTokAnalyze)
			})

			// YouTube API
			r.Route("/youtube", func(r chi.Router) {
				r.Post("/scrape", analyzeHandler.YouTubeScrape)
				r.Post("/analyze", analyzeHandler.YouTubeAnalyze)
				r.Post("/full", analyzeHandler.YouTubeFull)
			})

			// Reports API
			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.ListReports)
				r.Get("/{id}", reportHandler.GetReport)
			})
		})
	})

	// WebSocket endpoint for run progress streaming
	router.Get("/ws/runs/{id}", handlers.RunWebSocketHandler(natsConn, eventsTopic))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
