package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features [text]",
	Short: "Extract linguistic features from a French text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngines()
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		features := env.Extractor.Extract(cmd.Context(), text)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(features)
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
