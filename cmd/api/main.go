package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "staff_reviews/internal/adapters/http_server"
	"staff_reviews/internal/adapters/observability"
	redisad "staff_reviews/internal/adapters/redis"
	"staff_reviews/internal/app"
	"staff_reviews/internal/domain"
	"staff_reviews/internal/shared"
	"staff_reviews/internal/storage/sqlstore"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, dialect, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer db.Close()
	log.Info().Str("driver", string(dialect)).Msg("database connection ok")

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; employee cache disabled")
			_ = rc.Close()
		} else {
			cache = rc
			defer rc.Close()
		}
	}

	store := sqlstore.New(db, dialect)
	employees := app.NewEmployeeDirectory(store, cache, cfg.CacheTTL)
	idm := app.NewIdentityMap()
	reviews := app.NewReviewRepository(store, employees, idm)
	defer reviews.Close()

	if err := employees.CreateTable(ctx); err != nil {
		log.Fatal().Err(err).Msg("create employees table failed")
	}
	if err := reviews.CreateTable(ctx); err != nil {
		log.Fatal().Err(err).Msg("create reviews table failed")
	}

	// http
	srv := server.New(server.Options{RateLimitRPS: cfg.RateLimit, RateLimitBurst: cfg.RateBurst})
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Reviews: reviews, Employees: employees})

	servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}}
	if ms := observability.NewMetricsServer(cfg.MetricsAddr, reg); ms != nil && cfg.MetricsAddr != cfg.HTTPAddr {
		servers = append(servers, ms)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Str("addr", s.Addr).Msg("shutdown failed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server failed")
	}
	log.Info().Int("cached_reviews", idm.Len()).Msg("shutting down")
}
