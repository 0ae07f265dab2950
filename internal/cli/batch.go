package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/csvutil"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/history"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

func newBatchCmd(rc *RootConfig) *cobra.Command {
	var (
		name   string
		column string
		format string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Download the daily history of every symbol listed in a CSV file",
		Long: `Read the Symbol column of a CSV file (any common delimiter) and download
the full daily history of each symbol from Yahoo Finance, one after another.
Symbols that fail are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = rc.Cfg.Output.HistoryFormat
			}
			f, err := history.ParseFormat(format)
			if err != nil {
				return err
			}

			symbols, err := csvutil.ReadColumn(name, column)
			if err != nil {
				return err
			}

			b := &batch{rc: rc, w: cmd.OutOrStdout(), format: f}
			b.run(cmd.Context(), symbols)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "SP_500.csv", "CSV file with the symbols")
	cmd.Flags().StringVar(&column, "column", "Symbol", "Name of the symbol column")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv|json|amibroker|highstock")
	return cmd
}

type batch struct {
	rc     *RootConfig
	w      io.Writer
	format history.Format

	saved, skipped int
}

func (b *batch) run(ctx context.Context, symbols []string) {
	fmt.Fprintf(b.w, "Loaded %d ticker.\n", len(symbols))
	for i, raw := range symbols {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(b.w, "-------- Symbol %d of %d --------\n", i, len(symbols))
		if err := b.one(ctx, raw); err != nil {
			b.skipped++
			fmt.Fprintf(b.w, "Error with %s: %v\n", strings.TrimSpace(raw), err)
			b.rc.Log.Debug("batch symbol failed", zap.String("symbol", raw), zap.Error(err))
		}
		fmt.Fprintln(b.w, "--------  --------")
	}
	fmt.Fprintf(b.w, "Done: %d saved, %d skipped.\n", b.saved, b.skipped)
}

func (b *batch) one(ctx context.Context, raw string) error {
	symbol := market.NormalizeSymbol(raw)
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", market.ErrInvalidSymbol)
	}

	ok, err := b.rc.Yahoo.Validate(ctx, symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not valid or has no data (possibly delisted)", market.ErrInvalidSymbol)
	}

	name, err := b.rc.Yahoo.DisplayName(ctx, symbol)
	if err != nil {
		name = "Unknown"
	}
	fmt.Fprintf(b.w, "%s: %s\n", symbol, name)

	fmt.Fprintf(b.w, "Requesting full historical data for %s ...\n", symbol)
	path, err := history.Download(ctx, b.rc.Yahoo, b.rc.Cfg.Output.Dir, symbol, b.format)
	if errors.Is(err, market.ErrNoData) {
		fmt.Fprintf(b.w, "No data found for %s. Check if the symbol is valid.\n", symbol)
		return nil
	}
	if err != nil {
		return err
	}
	b.saved++
	fmt.Fprintf(b.w, "Saved %s to %s\n", b.format, path)
	return nil
}
