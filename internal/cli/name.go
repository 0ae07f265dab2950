package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

func newNameCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "name [symbol]",
		Short: "Print the company or asset name behind a ticker symbol",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				s, err := newPrompter(cmd.InOrStdin(), w).Ask("Insert the ticker symbol (e.g. AAPL, TSLA):")
				if err != nil {
					return err
				}
				symbol = s
			}
			symbol = market.NormalizeSymbol(symbol)

			ok, err := rc.Yahoo.Validate(cmd.Context(), symbol)
			if err != nil {
				return fmt.Errorf("checking symbol '%s': %w", symbol, err)
			}
			if !ok {
				return fmt.Errorf("the symbol '%s' is not valid or has no data (possibly delisted): %w", symbol, market.ErrInvalidSymbol)
			}

			name, err := rc.Yahoo.DisplayName(cmd.Context(), symbol)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "The symbol: %s is related to '%s'\n", symbol, name)
			return nil
		},
	}
}
