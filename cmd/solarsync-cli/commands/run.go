package commands

import (
	"fmt"
	"log/slog"
	"solarsync-backend/lib/browser"
	"solarsync-backend/lib/plantstore"
	"solarsync-backend/lib/scrapers/solar"
	"solarsync-backend/lib/serviceutil"
	"solarsync-backend/services/monitor"
	"time"

	"github.com/spf13/cobra"
)

var runVendor *string

func init() {
	runVendor = runCmd.Flags().String("vendor", "", "Run a single vendor instead of all configured ones.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--vendor <name>]",
	Short: "Runs one scrape round now and exits.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		var client plantstore.Client
		if config.Postgrest.Url != "" {
			client = plantstore.NewPostgrestClient(config.Postgrest)
		} else {
			db, err := config.Database.OpenDB(plantstore.Schema)
			if err != nil {
				serviceutil.Fatal("failed to open database", err)
			}
			defer db.Close()
			client = plantstore.NewStore(db)
		}

		var profiles []solar.VendorProfile
		switch {
		case *runVendor != "":
			profile, ok := solar.ProfileByName(*runVendor)
			if !ok {
				serviceutil.Fatal("failed to resolve vendor", fmt.Errorf("unknown vendor: %s", *runVendor))
			}
			profiles = []solar.VendorProfile{profile}
		case len(config.Vendors) > 0:
			for _, name := range config.Vendors {
				profile, ok := solar.ProfileByName(name)
				if !ok {
					serviceutil.Fatal("failed to resolve vendor", fmt.Errorf("unknown vendor: %s", name))
				}
				profiles = append(profiles, profile)
			}
		default:
			profiles = solar.BuiltinProfiles()
		}
		if config.MaxPages > 0 {
			for i := range profiles {
				profiles[i].MaxPages = config.MaxPages
			}
		}

		chrome := browser.NewChrome(cmd.Context(), browser.ChromeOptions{Headful: config.Headful})
		defer chrome.Close()

		service := monitor.NewService(monitor.Options{
			Browser:  chrome,
			Gateway:  plantstore.NewGateway(client),
			Profiles: profiles,
			Pacing:   browser.DefaultPacing,
			Sessions: solar.NewSessionManager(browser.DefaultPacing),
		})

		t1 := time.Now()
		service.RunRound(cmd.Context())
		slog.Info("round finished", "seconds", time.Since(t1).Seconds())
	},
}
