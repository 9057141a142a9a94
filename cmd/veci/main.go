// SPDX-License-Identifier: MIT

// Command veci runs the En-Dulce WhatsApp order-taking bot: a Twilio
// webhook in front of an AI-assisted dialogue controller with Redis
// sessions and a SQLite order book.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/endulce/veci/internal/ai"
	"github.com/endulce/veci/internal/api"
	"github.com/endulce/veci/internal/bot"
	"github.com/endulce/veci/internal/config"
	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/menu"
	"github.com/endulce/veci/internal/notify"
	"github.com/endulce/veci/internal/orders"
	"github.com/endulce/veci/internal/session"
)

// version is stamped via -ldflags at release time.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional; env vars override)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("veci %s\n", version)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "veci: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log.Configure(log.Config{Level: cfg.LogLevel, Service: "veci"})
	logger := log.WithComponent("main")
	logger.Info().Str("version", version).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	menuStore := menu.Load(cfg.MenuPath)

	// Redis is the primary session store. When it is down at boot, or
	// degrades later, conversations continue on the in-process store.
	memStore := session.NewMemoryStore(cfg.SessionTTL, time.Minute)
	defer memStore.Stop()

	var sessions session.Store = memStore
	redisStore, err := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.SessionTTL)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
			Msg("redis unavailable, sessions are in-memory only")
	} else {
		defer redisStore.Close()
		sessions = session.NewFailoverStore(redisStore, memStore)
	}

	orderStore, err := orders.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open order store: %w", err)
	}
	defer orderStore.Close()

	notifier := notify.NewTwilio(notify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
		AdminPhone: cfg.AdminNumber,
	})

	capability := ai.NewClient(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.Model, menuStore)

	controller := bot.New(sessions, capability, orderStore, notifier, bot.Config{
		Blocklist:     cfg.Blocklist,
		Location:      cfg.Location(),
		OpenHour:      cfg.OpenHour,
		CloseHour:     cfg.CloseHour,
		GreetDelayMin: cfg.GreetDelayMin,
		GreetDelayMax: cfg.GreetDelayMax,
	})

	server := api.New(api.Options{
		Addr:         cfg.ListenAddr,
		Processor:    controller,
		Orders:       orderStore,
		RateLimitRPM: cfg.RateLimitRPM,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		if err := menuStore.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("menu hot-reload disabled")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info().Msg("stopped")
	return nil
}
