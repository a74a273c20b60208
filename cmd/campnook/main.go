package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mchou/campnook/internal/advisor"
	"github.com/mchou/campnook/internal/backup"
	"github.com/mchou/campnook/internal/database"
	"github.com/mchou/campnook/internal/logging"
	"github.com/mchou/campnook/internal/push"
	"github.com/mchou/campnook/internal/remote"
	"github.com/mchou/campnook/internal/server"
	"github.com/mchou/campnook/internal/store"
	"github.com/mchou/campnook/internal/trip"
	"github.com/mchou/campnook/internal/weather"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "generate-vapid-keys" {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate VAPID keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("CAMPNOOK_VAPID_PUBLIC_KEY=%s\nCAMPNOOK_VAPID_PRIVATE_KEY=%s\n", pub, priv)
		return
	}

	logger := logging.Setup(env("CAMPNOOK_LOG_LEVEL", "info"), env("CAMPNOOK_LOG_FORMAT", "text"))

	port := env("CAMPNOOK_PORT", "8080")
	dbPath := env("CAMPNOOK_DB_PATH", "campnook.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	settings := store.NewSettingsStore(db)

	// Environment wins over stored settings so a container deploy can pin
	// its configuration.
	remoteURL := env("CAMPNOOK_REMOTE_URL", settings.GetDefault(store.SettingRemoteURL, ""))
	advisorModel := env("CAMPNOOK_ADVISOR_MODEL", settings.GetDefault(store.SettingAdvisorModel, ""))
	weatherLat := env("CAMPNOOK_WEATHER_LAT", settings.GetDefault(store.SettingWeatherLatitude, ""))
	weatherLon := env("CAMPNOOK_WEATHER_LON", settings.GetDefault(store.SettingWeatherLongitude, ""))

	var adv trip.Advisor
	if apiKey := os.Getenv("CAMPNOOK_ADVISOR_KEY"); apiKey != "" {
		opts := []advisor.Option{}
		if advisorModel != "" {
			opts = append(opts, advisor.WithModel(advisorModel))
		}
		adv = advisor.New(apiKey, logger.With("component", "advisor"), opts...)
	} else {
		logger.Warn("no advisor API key set, AI features disabled")
	}

	orch := trip.New(logger.With("component", "trip"), adv)

	var remoteClient *remote.Client
	if remoteURL != "" {
		remoteClient = remote.NewClient(remoteURL, logger.With("component", "remote"))
	} else {
		logger.Warn("no remote URL set, running offline only")
	}
	bridge := remote.NewBridge(remoteClient, store.NewSnapshotStore(db), 2*time.Second, logger.With("component", "sync"))

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	data, err := bridge.Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Error("failed to load trip document", "error", err)
		os.Exit(1)
	}
	if data == nil {
		logger.Info("no saved trip found, starting from the default trip")
		data = trip.DefaultData()
	}
	orch.Hydrate(data)

	weatherSvc := weather.NewService(weather.Config{
		Latitude:  weatherLat,
		Longitude: weatherLon,
	})

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("CAMPNOOK_S3_ENDPOINT"),
			Bucket:    os.Getenv("CAMPNOOK_S3_BUCKET"),
			Region:    env("CAMPNOOK_S3_REGION", "auto"),
			AccessKey: os.Getenv("CAMPNOOK_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("CAMPNOOK_S3_SECRET_KEY"),
		},
		Passphrase: os.Getenv("CAMPNOOK_BACKUP_PASSPHRASE"),
		Prefix:     env("CAMPNOOK_BACKUP_PREFIX", "trips"),
	}
	pushCfg := server.PushConfig{
		VAPIDPublicKey:  os.Getenv("CAMPNOOK_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("CAMPNOOK_VAPID_PRIVATE_KEY"),
	}

	srv := server.New(db, orch, bridge, weatherSvc, backupCfg, pushCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.BackupManager().Start(ctx)
	go srv.RateLimiter().CleanupLoop(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("campnook listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// Flush any pending cloud save so the last edit is not lost.
	bridge.Flush()
	srv.BackupManager().Stop()
}
