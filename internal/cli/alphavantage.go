package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/config"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/alphavantage"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

func newAlphaVantageCmd(rc *RootConfig) *cobra.Command {
	var (
		apiKey     string
		function   string
		outputSize string
		interval   string
		compress   bool
	)

	cmd := &cobra.Command{
		Use:     "alphavantage [symbol]",
		Aliases: []string{"av"},
		Short:   "Download a time series from Alpha Vantage and save it as JSON and CSV",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			av := rc.Cfg.AlphaVantage
			if function == "" {
				function = av.Function
			}
			if outputSize == "" {
				outputSize = av.OutputSize
			}
			if interval == "" {
				interval = av.Interval
			}
			if !cmd.Flags().Changed("compress") {
				compress = av.Compress
			}
			function = strings.ToUpper(function)

			w := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), w)

			client := *rc.AlphaVantage
			if apiKey != "" {
				client.APIKey = apiKey
			}
			if client.APIKey == "" {
				key, err := p.Ask("Insert your API key from Alpha Vantage:")
				if err != nil {
					return err
				}
				if key == "" {
					return fmt.Errorf("missing api key: set --api-key or env %s", config.EnvAPIKey)
				}
				client.APIKey = key
			}

			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				search, err := p.Confirm("Enter 'yes' if you want to search for the tag for the asset you want to search for, otherwise you will proceed directly to entering the tag:")
				if err != nil {
					return err
				}
				if search {
					name, err := p.Ask("Insert the asset name or the company name (es: Apple, Tesla):")
					if err != nil {
						return err
					}
					matches, err := client.Search(cmd.Context(), strings.ToLower(name))
					if err != nil {
						fmt.Fprintf(w, "Error while searching: %v\n", err)
					} else {
						fmt.Fprintln(w, "The best matches found:")
						for _, m := range matches {
							fmt.Fprintf(w, "%s - %s (%s)\n", m.Symbol, m.Name, m.Region)
						}
					}
				}
				if symbol, err = p.Ask("Insert the TAG (es: AAPL, TSLA):"); err != nil {
					return err
				}
			}
			symbol = market.NormalizeSymbol(symbol)
			if symbol == "" {
				return fmt.Errorf("%w: empty symbol", market.ErrInvalidSymbol)
			}

			fmt.Fprintf(w, "Requesting data for %s ...\n", symbol)
			series, err := client.TimeSeries(cmd.Context(), alphavantage.Request{
				Function:   function,
				Symbol:     symbol,
				OutputSize: outputSize,
				Interval:   interval,
			})
			if series == nil {
				return err
			}

			dir := rc.Cfg.Output.Dir
			jsonPath, jerr := alphavantage.SaveJSON(dir, series, compress)
			if jerr != nil {
				return jerr
			}
			fmt.Fprintf(w, "Saved JSON to %s\n", jsonPath)

			if errors.Is(err, alphavantage.ErrSeriesNotFound) {
				fmt.Fprintf(w, "Warning: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}

			csvPath, err := alphavantage.SaveCSV(dir, series)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved CSV to %s\n", csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Alpha Vantage API key (or env "+config.EnvAPIKey+")")
	cmd.Flags().StringVar(&function, "function", "", "TIME_SERIES_DAILY|TIME_SERIES_WEEKLY|TIME_SERIES_MONTHLY|TIME_SERIES_INTRADAY")
	cmd.Flags().StringVar(&outputSize, "outputsize", "", "compact|full")
	cmd.Flags().StringVar(&interval, "interval", "", "Intraday interval, e.g. 5min")
	cmd.Flags().BoolVar(&compress, "compress", false, "Store the raw JSON xz-compressed")
	return cmd
}
