package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jredh-dev/foodshare/config"
	"github.com/jredh-dev/foodshare/internal/analytics"
	"github.com/jredh-dev/foodshare/internal/auth"
	"github.com/jredh-dev/foodshare/internal/cloudstore"
	"github.com/jredh-dev/foodshare/internal/database"
	"github.com/jredh-dev/foodshare/internal/fixtures"
	"github.com/jredh-dev/foodshare/internal/listings"
	"github.com/jredh-dev/foodshare/internal/memstore"
	"github.com/jredh-dev/foodshare/internal/notifications"
	"github.com/jredh-dev/foodshare/internal/token"
	"github.com/jredh-dev/foodshare/internal/web/handlers"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// store is a backend holding both items and notifications.
type store interface {
	listings.Repository
	notifications.Repository
	Close() error
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("foodshare-server %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWT.SigningKey == "" {
		key, err := token.GenerateSigningKey()
		if err != nil {
			log.Fatalf("Failed to generate signing key: %v", err)
		}
		log.Println("WARNING: JWT_SIGNING_KEY is empty, using a random key (sessions end on restart)")
		cfg.JWT.SigningKey = key
	}

	// Initialize storage.
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", cfg.Store.Driver, err)
	}
	defer st.Close()

	// Optional notification mirror.
	var mirror notifications.Mirror
	if len(cfg.Kafka.Brokers) > 0 {
		km := notifications.NewKafkaMirror(cfg.Kafka.Brokers, cfg.Kafka.NotifyTopic)
		defer km.Close()
		mirror = km
		log.Printf("Mirroring notifications to kafka topic %s", cfg.Kafka.NotifyTopic)
	}

	// Session revocation list, shared through Redis when configured.
	var revoker auth.Revoker
	if cfg.Redis.URL != "" {
		rr, err := auth.NewRedisRevoker(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to initialize redis revoker: %v", err)
		}
		defer rr.Close()
		revoker = rr
	}

	// Demo directory and data.
	fixture, err := loadFixture(cfg)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	users := auth.NewDirectory()
	if err := fixture.SeedUsers(users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if cfg.Seed.Demo {
		now := time.Now()
		if err := fixture.SeedItems(ctx, st, now); err != nil {
			log.Fatalf("Failed to seed items: %v", err)
		}
		if err := fixture.SeedNotifications(ctx, st, now); err != nil {
			log.Fatalf("Failed to seed notifications: %v", err)
		}
	}

	// Initialize services.
	tokens := token.New(cfg.JWT.SigningKey, cfg.JWT.Issuer)
	authService := auth.New(users, tokens, revoker, time.Duration(cfg.Session.MaxAge)*time.Second)
	notes := notifications.New(st, mirror)
	items := listings.New(st, listings.WithNotifier(notes))
	stats := analytics.New(items)

	// Initialize router.
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := handlers.New(cfg, authService, items, notes, stats)
	h.Mount(r)

	traced := otelhttp.NewHandler(r, cfg.Telemetry.ServiceName,
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      traced,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("FoodShare server starting on %s (env: %s, store: %s)", addr, cfg.Server.Env, cfg.Store.Driver)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverSQLite:
		return database.New(cfg.Store.SQLitePath)
	case config.DriverFirestore:
		return cloudstore.Open(ctx, cloudstore.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsPath: cfg.Firebase.CredentialsPath,
			Database:        cfg.Firebase.FirestoreDatabase,
		})
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}

func loadFixture(cfg *config.Config) (*fixtures.File, error) {
	if cfg.Seed.Path != "" {
		return fixtures.LoadFile(cfg.Seed.Path)
	}
	return fixtures.Demo()
}
