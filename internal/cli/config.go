package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage the defaults every command falls back to when a flag is not given.

Examples:
  marketdata config init -o marketdata.yaml
  marketdata config validate -f marketdata.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✓ Created default configuration: %s\n", output)
			fmt.Fprintf(w, "\nEdit the file and run with:\n  marketdata --config %s track\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "marketdata.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(w, "  Output: %s (%s)\n", cfg.Output.Dir, cfg.Output.HistoryFormat)
			fmt.Fprintf(w, "  Tracker: %s every %s, csv=%t plot=%t\n",
				cfg.Tracker.Duration(), cfg.Tracker.Refresh(), cfg.Tracker.SaveCSV, cfg.Tracker.ShowPlot)
			fmt.Fprintf(w, "  Alpha Vantage: %s (%s)\n", cfg.AlphaVantage.Function, cfg.AlphaVantage.OutputSize)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
