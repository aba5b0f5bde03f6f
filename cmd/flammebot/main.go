package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"flammebot/config"
	"flammebot/internal/adapters/discord"
	httpdelivery "flammebot/internal/delivery/http"
	"flammebot/internal/repository/jsonfile"
	"flammebot/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", "tz", cfg.Timezone, "err", err)
		os.Exit(1)
	}

	logger.Info("starting flammebot",
		"env", cfg.Environment,
		"data_dir", cfg.DataDir,
		"tz", cfg.Timezone,
		"tick_seconds", cfg.TickSeconds,
	)

	catalogRepo := jsonfile.NewGuildConfigRepo(cfg.DataDir)
	postLogRepo := jsonfile.NewPostLogRepo(cfg.DataDir)
	rsvpStoreRepo := jsonfile.NewRSVPStoreRepo(cfg.DataDir)
	rsvpConfigRepo := jsonfile.NewRSVPConfigRepo(cfg.DataDir)
	onboardingRepo := jsonfile.NewOnboardingConfigRepo(cfg.DataDir)

	adapter, err := discord.New(cfg.BotToken, logger)
	if err != nil {
		logger.Error("discord session", "err", err)
		os.Exit(1)
	}

	catalogSvc := services.NewCatalogService(catalogRepo, logger)
	schedulerSvc := services.NewSchedulerService(catalogRepo, catalogSvc, postLogRepo, adapter, adapter, loc, logger)
	rsvpSvc := services.NewRSVPService(rsvpStoreRepo, rsvpConfigRepo, adapter, adapter, logger)
	onboardingSvc := services.NewOnboardingService(onboardingRepo, adapter, adapter, logger)

	handler := discord.NewHandler(adapter, catalogSvc, schedulerSvc, rsvpSvc, onboardingSvc, loc, logger)
	handler.Register()

	if err := adapter.Open(); err != nil {
		logger.Error("gateway connect", "err", err)
		os.Exit(1)
	}
	defer adapter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(fmt.Sprintf("@every %ds", cfg.TickSeconds), func() {
		tickCtx, tickCancel := context.WithTimeout(ctx, 25*time.Second)
		defer tickCancel()
		if err := schedulerSvc.RunTick(tickCtx, time.Now()); services.IsRecoverable(err) {
			logger.Error("tick failed", "err", err)
		}
	})
	if err != nil {
		logger.Error("schedule tick", "err", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpdelivery.NewRouter(logger),
	}
	go func() {
		logger.Info("health server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server", "err", err)
		}
	}()

	go httpdelivery.KeepAlive(ctx, cfg.KeepaliveURL, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("signal received, shutting down", "signal", sig.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("flammebot exiting")
}
