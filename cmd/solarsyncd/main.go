package main

import (
	"context"
	"log/slog"
	"os"
	"solarsync-backend/lib/browser"
	"solarsync-backend/lib/configuration"
	"solarsync-backend/lib/plantstore"
	"solarsync-backend/lib/scrapers/solar"
	"solarsync-backend/lib/serviceutil"
	"solarsync-backend/lib/telemetry"
	"solarsync-backend/services/monitor"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	ctx := serviceutil.SignalContext()

	// portal credentials live in .env next to the config
	godotenv.Load()

	config, err := configuration.Read[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "solarsyncd")
	if os.IsNotExist(err) {
		slog.Warn("no telemetry.json5 found, tracing disabled")
	} else if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	} else {
		defer t.Shutdown(context.Background())
	}

	client, err := config.storageClient()
	if err != nil {
		serviceutil.Fatal("failed to open storage", err)
	}
	profiles, err := config.profiles()
	if err != nil {
		serviceutil.Fatal("failed to resolve vendors", err)
	}

	chrome := browser.NewChrome(ctx, browser.ChromeOptions{Headful: config.Headful})
	defer chrome.Close()

	service := monitor.NewService(monitor.Options{
		Browser:  chrome,
		Gateway:  plantstore.NewGateway(client),
		Profiles: profiles,
		Pacing:   browser.DefaultPacing,
		Sessions: solar.NewSessionManager(browser.DefaultPacing),
	})

	interval := time.Duration(config.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	service.StartDaemon(ctx, interval)
}
