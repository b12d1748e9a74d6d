package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/normaudit/insight-cli/internal/actionplan"
)

var (
	actionDescription string
	actionDomain      string
	actionTheme       string
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Analyze a compliance action description",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngines()
		if err != nil {
			return err
		}

		result := env.ActionPlan.Analyze(cmd.Context(), actionplan.Request{
			Description: actionDescription,
			Domain:      actionDomain,
			Theme:       actionTheme,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	actionCmd.Flags().StringVar(&actionDescription, "description", "", "action description text (required)")
	actionCmd.Flags().StringVar(&actionDomain, "domain", "", "compliance domain")
	actionCmd.Flags().StringVar(&actionTheme, "theme", "", "compliance theme")
	_ = actionCmd.MarkFlagRequired("description")
	rootCmd.AddCommand(actionCmd)
}
