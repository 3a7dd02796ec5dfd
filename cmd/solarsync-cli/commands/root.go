package commands

import (
	"context"
	"fmt"
	"os"
	"solarsync-backend/lib/configuration"
	"solarsync-backend/lib/plantstore"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solarsync-cli",
	Short: "solarsync-cli runs scrape rounds and inspects the plant store.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Database  configuration.Sqlite       `json:"database"`
	Postgrest plantstore.PostgrestConfig `json:"postgrest"`
	Vendors   []string                   `json:"vendors"`
	MaxPages  int                        `json:"max_pages"`
	Headful   bool                       `json:"headful"`
}

func readConfig() (Config, error) {
	return configuration.Read[Config]("config.json5")
}
