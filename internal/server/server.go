package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/shopsmart/apiserver/config"
	"github.com/shopsmart/apiserver/internal/db"
	"github.com/shopsmart/apiserver/internal/events"
	"github.com/shopsmart/apiserver/internal/handlers"
	"github.com/shopsmart/apiserver/internal/services"
	"github.com/shopsmart/apiserver/internal/session"
	"github.com/shopsmart/apiserver/internal/store"
)

// Server wraps the HTTP server and its owned connections.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	redis      *redis.Client
	events     *events.Publisher
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var sessionStore session.Store
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		sessionStore = session.NewRedisStore(redisClient)
	} else {
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, cfg.Session)

	publisher, err := events.Open(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	sessionRepo := store.NewSessionRepository(dbConn)
	productRepo := store.NewProductRepository(dbConn)
	cartRepo := store.NewCartRepository(dbConn)

	accountService := services.NewAccountService(userRepo, publisher)
	catalogService := services.NewCatalogService(productRepo)
	cartService := services.NewCartService(cartRepo)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(sessions.Middleware)

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, accountService, sessions, sessionRepo)
	})
	router.Route("/products", func(r chi.Router) {
		handlers.ProductRouter(r, catalogService)
	})
	router.Route("/cart", func(r chi.Router) {
		handlers.CartRouter(r, cartService)
	})

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
		db:         dbConn,
		redis:      redisClient,
		events:     publisher,
	}, nil
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
