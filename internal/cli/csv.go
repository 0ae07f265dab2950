package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/csvutil"
)

func newCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "CSV file utilities",
	}

	cmd.AddCommand(
		newCSVLenCmd(),
		newCSVConvertCmd(),
	)
	return cmd
}

func newCSVLenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "len <file.csv>",
		Short: "Print the number of data rows, header excluded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := csvutil.CountRows(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newCSVConvertCmd() *cobra.Command {
	var from, to, output string

	cmd := &cobra.Command{
		Use:   "convert <file.csv>",
		Short: "Rewrite a CSV file with a different delimiter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			src, err := csvutil.ParseDelimiter(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			dst, err := csvutil.ParseDelimiter(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			if dst == 0 {
				return fmt.Errorf("--to needs an explicit delimiter")
			}
			if output == "" {
				output = csvutil.ConvertedName(in)
			}
			if err := csvutil.Convert(in, output, src, dst); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted file saved as: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", ";", "Input delimiter, or auto to detect it")
	cmd.Flags().StringVar(&to, "to", ",", "Output delimiter")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <name>_converted.csv)")
	return cmd
}
