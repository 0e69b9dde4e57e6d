package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	authapp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/application"
	authhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/http"
	authpg "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/postgres"
	authredis "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/redis"
	bookingapp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/application"
	bookinghttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/infrastructure/http"
	bookingpg "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/infrastructure/postgres"
	invapp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/application"
	invhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/infrastructure/http"
	invpg "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/infrastructure/postgres"
	orderapp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/application"
	orderhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/infrastructure/http"
	orderkafka "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/infrastructure/kafka"
	orderpg "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/infrastructure/postgres"
	restapp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/application"
	resthttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/infrastructure/http"
	restpg "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/infrastructure/postgres"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/config"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/migrations"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/authtoken"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/httpx"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/logging"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/metrics"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/outbox"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Quantities and prices serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// Outbox relay
	writer := orderkafka.NewWriter(cfg.Kafka.Brokers)
	defer writer.Close()
	dispatch := outbox.NewDispatcher(log, writer, cfg.Kafka.Topic)
	store := orderpg.NewOutboxStore(log, pool)
	relay := outbox.NewRelay(log, store, dispatch, "server-"+uuid.NewString())
	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped", "err", err)
		}
	}()

	tokens := authtoken.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mw := authhttp.NewMiddleware(log, tokens)

	authService := authapp.NewService(log, authpg.NewRepository(log, pool), authredis.NewThrottle(rdb), tokens)
	authHandler := authhttp.NewHandler(log, authService)

	restHandler := resthttp.NewHandler(log,
		restapp.NewService(log, restpg.NewRepository(log, pool)), mw)
	bookingHandler := bookinghttp.NewHandler(log,
		bookingapp.NewService(log, bookingpg.NewRepository(log, pool)), mw)
	orderHandler := orderhttp.NewHandler(log,
		orderapp.NewService(log, orderpg.NewRepository(log, pool)), mw)
	invHandler := invhttp.NewHandler(log,
		invapp.NewService(log, invpg.NewRepository(log, pool)), mw)

	m := metrics.NewServerMetrics("restaurant_server")

	r := chi.NewRouter()
	r.Use(httpx.RequestID)
	r.Use(httpx.Logger(log))
	r.Use(m.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Mount("/restaurants", restHandler.Routes())
		r.Mount("/bookings", bookingHandler.Routes())
		r.Mount("/orders", orderHandler.Routes())
		r.Mount("/inventory", invHandler.Routes())
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			httpx.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		httpx.OK(w, http.StatusOK, nil)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	log.Info("server stopped")
}
