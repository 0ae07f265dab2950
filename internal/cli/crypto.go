package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/coingecko"
)

func newCryptoCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "crypto [limit]",
		Short: "Download the top cryptocurrencies by market cap from CoinGecko",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := rc.Cfg.CoinGecko.Limit
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("limit must be a positive integer, got %q", args[0])
				}
				limit = n
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Download the top %d cryptocoin from CoinGecko...\n", limit)
			coins, err := rc.CoinGecko.TopMarkets(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(w, "The list of the obtained data for the cryptocoin is:")
			if err := coingecko.WriteTable(w, coins); err != nil {
				return err
			}

			path := filepath.Join(rc.Cfg.Output.Dir, coingecko.FileName(limit))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := coingecko.WriteCSV(f, coins); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(w, "File saved as: %s\n", path)
			return nil
		},
	}
}
