package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/internal/history"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/scheduler"
)

func newScheduleCmd(rc *RootConfig) *cobra.Command {
	var (
		spec    string
		symbols string
		format  string
		now     bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Refresh daily history files on a cron schedule until interrupted",
		Example: `  marketdata schedule --symbols AAPL,MSFT,BTC-USD
  marketdata schedule --cron "0 0 7 * * *" --symbols SAP.DE --now`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := rc.Cfg.Schedule
			if spec == "" {
				spec = sc.Cron
			}
			syms := scheduler.ParseSymbols(symbols)
			if len(syms) == 0 {
				syms = sc.Symbols
			}
			if len(syms) == 0 {
				return fmt.Errorf("missing --symbols (e.g. AAPL,MSFT)")
			}
			if format == "" {
				format = rc.Cfg.Output.HistoryFormat
			}
			f, err := history.ParseFormat(format)
			if err != nil {
				return err
			}

			log := rc.Log.Named("schedule")
			job := func(ctx context.Context, symbol string) error {
				path, err := history.Download(ctx, rc.Yahoo, rc.Cfg.Output.Dir, symbol, f)
				if err != nil {
					return err
				}
				log.Info("history refreshed", zap.String("symbol", symbol), zap.String("path", path))
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := scheduler.New(job, syms, log)
			if err := s.Register(ctx, spec); err != nil {
				return err
			}
			if now {
				s.RunNow(ctx)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Refreshing %d symbols on %q, press Ctrl+C to stop.\n", len(syms), spec)
			s.Run(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "", "Cron spec with seconds field, or a descriptor like @daily")
	cmd.Flags().StringVar(&symbols, "symbols", "", "Comma-separated symbols")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv|json|amibroker|highstock")
	cmd.Flags().BoolVar(&now, "now", false, "Run once immediately before waiting for the schedule")
	return cmd
}
