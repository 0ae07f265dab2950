package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/history"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

func newHistoryCmd(rc *RootConfig) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "history [symbol]",
		Short: "Download the full daily history of an asset from Yahoo Finance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = rc.Cfg.Output.HistoryFormat
			}
			f, err := history.ParseFormat(format)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				p := newPrompter(cmd.InOrStdin(), w)
				search, err := p.Confirm("Enter 'yes' if you want to search for the ticker symbol for an asset (e.g. company name), otherwise you will proceed directly:")
				if err != nil {
					return err
				}
				if search {
					name, err := p.Ask("Insert the asset or company name (e.g. Apple, Tesla):")
					if err != nil {
						return err
					}
					printMatches(cmd.Context(), w, rc.Searcher, name)
				}
				if symbol, err = p.Ask("Insert the ticker symbol (e.g. AAPL, TSLA):"); err != nil {
					return err
				}
			}
			symbol = market.NormalizeSymbol(symbol)
			if symbol == "" {
				return fmt.Errorf("%w: empty symbol", market.ErrInvalidSymbol)
			}

			fmt.Fprintf(w, "Requesting full historical data for %s ...\n", symbol)
			path, err := history.Download(cmd.Context(), rc.Yahoo, rc.Cfg.Output.Dir, symbol, f)
			if errors.Is(err, market.ErrNoData) {
				fmt.Fprintf(w, "No data found for %s. Check if the symbol is valid.\n", symbol)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved %s to %s\n", f, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: csv|json|amibroker|highstock")
	return cmd
}
