package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the candidate roster to an Excel workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		runExport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "roster.xlsx", "path of the workbook to write")
}

func runExport(cmd *cobra.Command) {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	candidates, err := loadRoster(cmd.Context(), config.Storage)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	path, err := export.Roster(candidates, cmd.Flag("output").Value.String(), time.Now())
	if err != nil {
		logger.Fatal("exporting roster", zap.Error(err))
	}

	logger.Info("roster exported", zap.String("filename", path), zap.Int("count", len(candidates)))
}
