package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/reporting"
)

var reportInput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a performance report from a statistics snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadAnalysisInput(reportInput)
		if err != nil {
			return err
		}

		engine := reporting.NewEngine(reporting.DefaultConfig())
		report := engine.Generate(in.Statistics)

		if report.Fallback {
			zap.L().Warn("report generated in degraded mode")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "JSON file with the statistics snapshot (required)")
	_ = reportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(reportCmd)
}
