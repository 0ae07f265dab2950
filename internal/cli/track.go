package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/chart"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/yahoo"
	"github.com/Arzazrel/Project-LSMSDB-25/journal"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
	"github.com/Arzazrel/Project-LSMSDB-25/tracker"
)

func newTrackCmd(rc *RootConfig) *cobra.Command {
	var (
		minutes     float64
		refresh     float64
		saveCSV     bool
		showPlot    bool
		symbol      string
		maxFailures int
		dbPath      string
	)

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track the live price of an asset, optionally saving and charting it",
		Example: `  marketdata track
  marketdata track --minutes 10 --refresh 2
  marketdata track --save_csv false --show_plot false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := rc.Cfg.Tracker
			if !cmd.Flags().Changed("minutes") {
				minutes = tc.Minutes
			}
			if !cmd.Flags().Changed("refresh") {
				refresh = tc.RefreshSeconds
			}
			if !cmd.Flags().Changed("save_csv") {
				saveCSV = tc.SaveCSV
			}
			if !cmd.Flags().Changed("show_plot") {
				showPlot = tc.ShowPlot
			}
			if !cmd.Flags().Changed("max-failures") {
				maxFailures = tc.MaxFailures
			}
			if dbPath == "" {
				dbPath = tc.DBPath
			}

			w := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), w)

			if symbol == "" {
				s, err := askSymbol(cmd.Context(), p, rc.Searcher, w)
				if err != nil {
					return err
				}
				symbol = s
			}
			symbol = market.NormalizeSymbol(symbol)

			cfg := tracker.Config{
				Symbol:      symbol,
				Duration:    time.Duration(minutes * float64(time.Minute)),
				Refresh:     time.Duration(refresh * float64(time.Second)),
				Persist:     saveCSV,
				Visualize:   showPlot,
				MaxFailures: maxFailures,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if open, known := market.MarketOpen(symbol, time.Now()); known && !open {
				rc.Log.Warn("market is closed, the price may not move", zap.String("symbol", symbol), zap.String("venue", market.VenueMIC(symbol)))
			}

			file := journal.NewPriceCSV(rc.Cfg.Output.Dir, symbol)
			var jr tracker.Sink
			if dbPath != "" {
				sq, err := journal.NewSQLite(dbPath)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer sq.Close()
				jr = sq
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			display := chart.NewTerminal(w, p.r, rc.Log.Named("chart"))
			display.Done = ctx.Done()

			console := tracker.Console{Out: w, Header: trackHeader(cfg, minutes, refresh, file.Path)}
			sinks := cfg.Sinks(console, file, jr, display)
			tr := tracker.New(rc.Yahoo, rc.Log.Named("tracker"), sinks...)

			rep, err := tr.Run(ctx, cfg)
			if errors.Is(err, market.ErrInvalidSymbol) {
				return fmt.Errorf("the symbol '%s' is not valid or has no data (possibly delisted): %w", symbol, market.ErrInvalidSymbol)
			}
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(w, "Interrupted by user.")
				return nil
			}
			if rep != nil && err == nil {
				fmt.Fprintf(w, "\nFinished tracking %s for %s minutes.\n", symbol, formatFloat(minutes))
				if rep.Failed > 0 {
					fmt.Fprintf(w, "%d of %d fetches failed.\n", rep.Failed, rep.Attempted)
				}
			}
			return err
		},
	}

	cmd.Flags().Float64Var(&minutes, "minutes", 5, "Tracking duration in minutes")
	cmd.Flags().Float64Var(&refresh, "refresh", 1, "Refresh interval in seconds")
	cmd.Flags().Var(newBoolValue(true, &saveCSV), "save_csv", "Save prices to CSV (true|false)")
	cmd.Flags().Var(newBoolValue(true, &showPlot), "show_plot", "Show live chart (true|false)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol; prompted for when empty")
	cmd.Flags().IntVar(&maxFailures, "max-failures", 0, "Stop after this many consecutive failed fetches (0 = never)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Also record samples to this SQLite journal")

	return cmd
}

// askSymbol runs the optional search step and then asks for the ticker.
func askSymbol(ctx context.Context, p *prompter, s market.SymbolSearcher, w io.Writer) (string, error) {
	search, err := p.Confirm("Enter 'yes' if you want to search for the ticker symbol for an asset (e.g. company name), otherwise you will proceed directly:")
	if err != nil {
		return "", err
	}
	if search {
		name, err := p.Ask("Insert the asset or company name (e.g. Apple, Tesla):")
		if err != nil {
			return "", err
		}
		printMatches(ctx, w, s, name)
	}

	sym, err := p.Ask("Insert the ticker symbol (e.g. AAPL, TSLA):")
	if err != nil {
		return "", err
	}
	sym = market.NormalizeSymbol(sym)
	if sym == "" {
		return "", fmt.Errorf("%w: empty symbol", market.ErrInvalidSymbol)
	}
	return sym, nil
}

// printMatches shows search results. Search failures are reported and do
// not stop the command.
func printMatches(ctx context.Context, w io.Writer, s market.SymbolSearcher, query string) {
	fmt.Fprintf(w, "Searching for matches related to '%s' ...\n", query)
	matches, err := s.Search(ctx, query)
	switch {
	case errors.Is(err, yahoo.ErrRateLimited):
		fmt.Fprintln(w, "Yahoo Finance rate limit reached. Please wait a minute and try again.")
		return
	case err != nil:
		fmt.Fprintf(w, "Error while searching: %v\n", err)
		return
	case len(matches) == 0:
		fmt.Fprintln(w, "No matches found.")
		return
	}
	fmt.Fprintln(w, "The best matches found:")
	for _, m := range matches {
		fmt.Fprintln(w, m.String())
	}
}

// trackHeader is printed once the symbol has been validated.
func trackHeader(cfg tracker.Config, minutes, refresh float64, path string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Live Tracker for %s ===\n", cfg.Symbol)
	fmt.Fprintf(&b, "Duration: %s min | Refresh: %ss | CSV: %t | Plot: %t\n\n",
		formatFloat(minutes), formatFloat(refresh), cfg.Persist, cfg.Visualize)
	if cfg.Persist {
		fmt.Fprintf(&b, "Saving live data to %s\n\n", path)
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
