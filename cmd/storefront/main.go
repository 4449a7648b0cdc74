package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/analytics"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/config"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/httpapi"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/identity"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/kvstore"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/messaging"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/notify"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/pixel"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const purgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	memory := kvstore.NewMemory()

	var (
		sessions port.SessionStorage = memory
		purger   stalePurger         = memory
		carts    port.CartRepository
		events   port.EventRepository
		db       httpapi.Pinger
	)

	pool := connect(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()

		sessionStorage := repository.NewSessionStorage(pool)
		sessions = sessionStorage
		purger = sessionStorage
		carts = repository.NewCart(pool)
		db = pool
	}

	go purgeStaleSessions(ctx, purger, cfg.SessionTTL, log)

	switch cfg.AnalyticsSink {
	case config.SinkPostgres:
		if pool != nil {
			events = repository.NewEventRepository(pool)
		} else {
			log.Warn("Analytics sink is postgres but no database is available, events are dropped")
		}
	case config.SinkKafka:
		w := messaging.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaAnalyticsTopic)
		defer func() {
			if err := w.Close(); err != nil {
				log.WithError(err).Warn("Failed to close kafka writer")
			}
		}()
		events = messaging.NewKafkaEvents(w)
	}

	group := notify.NewGroup(log, cfg.NotifyTimeout)

	pixels := pixel.NewDispatcher(group, log,
		pixel.NewMeta(pixel.MetaConfig{
			PixelID:     cfg.MetaPixelID,
			AccessToken: cfg.MetaAccessToken,
			BaseURL:     cfg.MetaAPIBase,
			SiteURL:     cfg.SiteURL,
		}),
		pixel.NewTikTok(pixel.TikTokConfig{
			PixelCode:   cfg.TikTokPixelCode,
			AccessToken: cfg.TikTokAccessToken,
			BaseURL:     cfg.TikTokAPIBase,
			SiteURL:     cfg.SiteURL,
		}),
	)
	log.WithField("pixels", pixels.Trackers()).Info("Marketing pixels configured")

	server := httpapi.New(httpapi.Deps{
		Config:    cfg,
		Log:       log,
		Sessions:  sessions,
		Carts:     carts,
		Analytics: analytics.NewDispatcher(events, identity.Provider{}, group, log),
		Pixels:    pixels,
		DB:        db,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	group.Wait()
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// connect returns nil in memory mode, including when the configured
// database cannot be reached.
func connect(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) *pgxpool.Pool {
	if cfg.MemoryMode() {
		log.Warn("DATABASE_URL is not set, running in memory mode")
		return nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Warn("Failed to create database pool, running in memory mode")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.WithError(err).Warn("Failed to reach database, running in memory mode")
		return nil
	}
	return pool
}

type stalePurger interface {
	PurgeStale(ctx context.Context, olderThan time.Time) (int64, error)
}

func purgeStaleSessions(ctx context.Context, sessions stalePurger, ttl time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeStale(ctx, time.Now().Add(-ttl))
			if err != nil {
				log.WithError(err).Warn("Failed to purge stale sessions")
				continue
			}
			if n > 0 {
				log.WithField("rows", n).Info("Purged stale session slots")
			}
		}
	}
}
