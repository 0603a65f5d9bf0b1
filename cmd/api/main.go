package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"rarorac-lab/internal/api"
	"rarorac-lab/internal/config"
	"rarorac-lab/internal/sampler"
	"rarorac-lab/internal/session"
	"rarorac-lab/internal/storage"
)

func main() {
	// .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	production := os.Getenv("API_ENV") == "production"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, production); err != nil {
		log.Fatal().Err(err).Msg("api server failed")
	}
}

func run(ctx context.Context, production bool) error {
	cfg, err := serverConfig()
	if err != nil {
		return err
	}

	var regOpts []session.Option
	regOpts = append(regOpts, session.WithLogger(log.Logger))
	if cfg.Server.RedisAddr != "" {
		rdb, err := storage.NewRedisClient(ctx, cfg.Server.RedisAddr)
		if err != nil {
			// Sessions still work in memory.
			log.Warn().Err(err).Msg("redis unavailable, session archive disabled")
		} else {
			defer rdb.Close()
			regOpts = append(regOpts, session.WithArchive(storage.NewRedisArchive(rdb, log.Logger)))
			log.Info().Str("addr", cfg.Server.RedisAddr).Msg("session archive enabled")
		}
	}
	sessions := session.NewRegistry(cfg.Server.SessionTTL, regOpts...)
	sessions.Start(5 * time.Minute)
	defer sessions.Close()

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	router := api.NewRouter(api.Options{
		Sessions:       sessions,
		Sampler:        sampler.New(cfg.SamplerOptions()...),
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		CORSOrigins:    origins,
		StaticDir:      staticDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Dur("session_ttl", cfg.Server.SessionTTL).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// serverConfig loads CONFIG_FILE when set and lets the environment override
// the server section.
func serverConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if v := os.Getenv("API_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.Server.SessionTTL = ttl
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Server.RedisAddr = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.Server.RateLimitRPS = rps
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
