package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/export"
	"github.com/normaudit/insight-cli/internal/model"
)

var (
	analyzeInput string
	analyzeXLSX  string
)

// analysisInput is the on-disk request shape: the platform statistics
// snapshot plus the subscription plan catalog.
type analysisInput struct {
	Statistics model.SystemStatistics `json:"statistics"`
	Plans      []model.Plan           `json:"plans"`
}

func loadAnalysisInput(path string) (*analysisInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read input file")
	}
	var in analysisInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, eris.Wrap(err, "parse input file")
	}
	return &in, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full insight analysis over a statistics snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngines()
		if err != nil {
			return err
		}

		in, err := loadAnalysisInput(analyzeInput)
		if err != nil {
			return err
		}

		bundle := env.Assembler.Assemble(cmd.Context(), in.Statistics, in.Plans)

		if analyzeXLSX != "" {
			if err := export.WriteBundle(bundle, analyzeXLSX); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", analyzeXLSX))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "JSON file with statistics and plans (required)")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "also write the bundle as an XLSX workbook")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}
