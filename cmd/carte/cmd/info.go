package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sebvdn/carte-gpx/internal/config"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database summary",
	Long:  "Print storage backend, settings and marker statistics for the configured database.",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment(context.Background())
	if err != nil {
		return err
	}
	defer env.close()

	markers := env.session.Store.List()
	attachments := 0
	durable := 0
	for _, m := range markers {
		attachments += len(m.Media)
		for _, a := range m.Media {
			if a.DurableKey != "" {
				durable++
			}
		}
	}
	settings := env.session.Settings()

	fmt.Printf("storage:      %s\n", config.GetStorageConfig().Type)
	fmt.Printf("markers:      %d\n", len(markers))
	fmt.Printf("attachments:  %d (%d persisted)\n", attachments, durable)
	fmt.Printf("base layer:   %s\n", settings.BaseLayer)
	fmt.Printf("auto-persist: %t\n", settings.AutoPersistMedia)
	return nil
}
