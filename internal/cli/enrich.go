package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/enrich"
)

func newEnrichCmd(rc *RootConfig) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Add Yahoo Finance short and long names to a CSV of symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := enrich.New(rc.Yahoo, rc.Log.Named("enrich"))
			st, err := e.File(cmd.Context(), input, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows: %d named, %d invalid, %d without names, %d blank\n",
				st.Rows, st.Named, st.Invalid, st.Unnamed, st.Blank)
			fmt.Fprintf(cmd.OutOrStdout(), "File saved as: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input CSV file path (required)")
	cmd.Flags().StringVarP(&output, "output", "o", enrich.DefaultOutput, "Output CSV file path")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
