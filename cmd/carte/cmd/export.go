package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sebvdn/carte-gpx/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export markers to a file",
	Long:  "Encode all stored markers as json, csv, gpx or utm and write the file to the output directory.",
	Args:  cobra.NoArgs,
}

func init() {
	exportCmd.RunE = runExport
	exportCmd.Flags().String("format", "json", "export format: json, csv, gpx or utm")
	exportCmd.Flags().String("out", "", "output directory (default: configured export.outputDir)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(cmd.Flags().Lookup("format").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	markers := env.session.Store.SelectedOrAll()
	payload, err := export.Export(format, markers)
	if err != nil {
		return err
	}

	path, err := export.NewFileDelivery(exportDir()).Deliver(payload)
	if err != nil {
		return err
	}

	env.telemetry.ExportCompleted(string(format), len(markers))
	env.log.Info().Str("path", path).Int("markers", len(markers)).Msg("Export written")
	fmt.Printf("wrote %d markers to %s\n", len(markers), path)
	return nil
}
