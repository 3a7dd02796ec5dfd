package commands

import (
	"fmt"
	"os"
	"solarsync-backend/lib/plantstore"
	"solarsync-backend/lib/serviceutil"
	"solarsync-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(plantsCmd)
}

var plantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "Prints the current state of every plant in the local store.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		db, err := config.Database.OpenDB(plantstore.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer db.Close()

		store := plantstore.NewStore(db)
		plants, err := store.ListPlants(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list plants", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Brand", "Plant", "Status", "Capacity (kWp)",
			"Power (kW)", "Yield today (kWh)", "Last seen online",
		})
		for _, p := range plants {
			capacity := ""
			if p.CapacityKwp != nil {
				capacity = fmt.Sprintf("%.2f", *p.CapacityKwp)
			}
			lastSeen := ""
			if p.LastSeenOnlineAt != nil {
				lastSeen = p.LastSeenOnlineAt.In(timezone.Location).Format("2006-01-02 15:04")
			}
			t.AppendRow(table.Row{
				p.Brand, p.Name, p.Status, capacity,
				fmt.Sprintf("%.2f", p.PowerKw),
				fmt.Sprintf("%.2f", p.DailyYieldKwh),
				lastSeen,
			})
		}
		t.Render()
	},
}
