package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ivanjaven/extension/config"
	"github.com/ivanjaven/extension/internal/bridge"
	"github.com/ivanjaven/extension/internal/db"
	"github.com/ivanjaven/extension/internal/handlers"
	"github.com/ivanjaven/extension/internal/mq"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/internal/storage"
	"github.com/ivanjaven/extension/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
	bridge     *bridge.Client
}

// New constructs a Server with basic middleware and defaults. Object storage,
// the message broker, and the fingerprint bridge are optional: leaving their
// backends unconfigured disables the features that need them.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokenService, err := services.NewTokenService(strings.TrimSpace(os.Getenv("JWT_SECRET")))
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	photoStore, err := newStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := newBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	accountService := services.NewAccountService(store.NewAccountRepository(dbConn))
	sessionService := services.NewSessionService(store.NewSessionRepository(dbConn))
	residentService := services.NewResidentService(store.NewResidentRepository(dbConn), photoStore)
	faceService := services.NewFaceService(residentService)
	queueService := services.NewQueueService(store.NewQueueRepository(dbConn), broker)
	reportService := services.NewReportService(store.NewReportRepository(dbConn))

	authHandler := handlers.NewAuthHandler(accountService, sessionService, tokenService, faceService)
	gate := handlers.RequireSession(tokenService, sessionService, cfg.Auth.StrictSessions)
	strictGate := handlers.RequireSession(tokenService, sessionService, true)

	var bridgeClient *bridge.Client
	if strings.TrimSpace(cfg.Bridge.URL) != "" {
		bridgeClient = bridge.NewClient(cfg.Bridge.URL)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
	})
	// The root path always gets the combined token+session check.
	router.With(strictGate).Get("/", handlers.Home)
	router.Route("/residents", func(r chi.Router) {
		r.Use(gate)
		handlers.ResidentRouter(r, residentService)
	})
	router.Route("/queue", func(r chi.Router) {
		r.Use(gate)
		handlers.QueueRouter(r, queueService)
	})
	router.Route("/reports", func(r chi.Router) {
		r.Use(gate)
		handlers.ReportRouter(r, reportService)
	})
	router.Route("/account", func(r chi.Router) {
		r.Use(gate)
		handlers.AccountRouter(r, accountService, sessionService)
	})
	if bridgeClient != nil {
		router.Route("/biometrics", func(r chi.Router) {
			r.Use(gate)
			handlers.BiometricRouter(r, bridgeClient)
		})
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
		bridge:     bridgeClient,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	if s.bridge != nil {
		_ = s.bridge.Close()
	}
	return s.httpServer.Close()
}

func newStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		wrapped := storage.NewStorage(client)
		if err := wrapped.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return wrapped, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, err
		}
		wrapped := storage.NewStorage(client)
		if err := wrapped.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return wrapped, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

func newBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unsupported mq backend %q", cfg.MQ.Backend)
	}
}
