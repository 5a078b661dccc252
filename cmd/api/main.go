package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hireground/internal/config"
	"github.com/justsurfingit/hireground/internal/database"
	"github.com/justsurfingit/hireground/internal/events"
	"github.com/justsurfingit/hireground/internal/handlers"
	"github.com/justsurfingit/hireground/internal/services"
	"github.com/justsurfingit/hireground/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("❌ Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load Environment Variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database Connection
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}

	// 3. Resume storage and event broker
	var store storage.ObjectStore
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		store = s3
		log.Info("✅ Object storage configured", "bucket", cfg.Storage.Bucket)
	} else {
		store = storage.NewMemoryStore()
		log.Warn("⚠️ R2_BUCKET_NAME not set, resumes are kept in memory")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Broker.URL != "" {
		amqpPub, err := events.DialAMQP(cfg.Broker.URL, cfg.Broker.Exchange, log)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	// 4. Initialize Core Services (Dependencies)
	llmService, err := services.NewLLMService(ctx, cfg.LLM, log)
	if errors.Is(err, services.ErrLLMDisabled) {
		log.Warn("⚠️ GEMINI_API_KEY not set, job extraction disabled")
	} else if err != nil {
		return err
	}

	authService := services.NewAuthService(db, cfg.Auth.TokenTTL, log)
	interviewService := services.NewInterviewService(db, publisher, cfg.Interviews.DefaultTTL, log)
	svc := handlers.Services{
		Auth:       authService,
		Profiles:   services.NewProfileService(db, store, cfg.Upload.MaxResumeBytes, cfg.Storage.UploadAttempts, log),
		Jobs:       services.NewJobService(db, services.NewMatcherService(), publisher, log),
		LLM:        llmService,
		Interviews: interviewService,
		Reviews:    services.NewReviewService(interviewService),
		Dashboard:  services.NewDashboardService(db, interviewService),
	}

	if cfg.Interviews.SeedFile != "" {
		seeds, err := config.LoadInterviewSeeds(cfg.Interviews.SeedFile)
		if err != nil {
			return err
		}
		if _, err := interviewService.Seed(ctx, seeds); err != nil {
			return err
		}
	}

	go purgeTokens(ctx, authService, log)

	// 5. Setup Router & CORS
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = cfg.Upload.MaxResumeBytes
	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true // For development only
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 6. Define Routes
	handlers.RegisterRoutes(r, svc)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// purgeTokens drops expired bearer tokens once an hour.
func purgeTokens(ctx context.Context, auth *services.AuthService, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpired(ctx)
			if err != nil {
				log.Warn("⚠️ Token purge failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("🧹 Expired tokens removed", "count", n)
			}
		}
	}
}
