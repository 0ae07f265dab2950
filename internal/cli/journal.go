package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Arzazrel/Project-LSMSDB-25/journal"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query tracking sessions recorded with track --db",
	}
	cmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to SQLite journal DB (default tracker.db_path)")

	open := func() (*journal.SQLite, error) {
		path := dbPath
		if path == "" {
			path = rc.Cfg.Tracker.DBPath
		}
		if path == "" {
			return nil, fmt.Errorf("missing --db")
		}
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			recs, err := j.ListSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("query sessions: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SESSION\tSYMBOL\tSTARTED\tDURATION\tREFRESH\tSAMPLES")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					r.ID, r.Symbol, r.Started.Local().Format(time.DateTime), r.Duration, r.Refresh, r.Samples)
			}
			return tw.Flush()
		},
	})

	var candles string
	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the samples of one session as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			samples, err := j.Samples(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("query samples: %w", err)
			}
			if len(samples) == 0 {
				return fmt.Errorf("no samples for session %s", args[0])
			}
			w := cmd.OutOrStdout()
			if candles != "" {
				tf, err := market.ParseTimeframe(candles)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "timestamp,open,high,low,close,samples")
				for _, c := range market.Aggregate(samples, tf) {
					fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d\n", c.Time.Format(journal.TimeLayout), c.Open, c.High, c.Low, c.Close, c.Count)
				}
				return nil
			}
			fmt.Fprintln(w, "timestamp,price")
			for _, s := range samples {
				fmt.Fprintf(w, "%s,%s\n", s.Time.Format(journal.TimeLayout), s.Price)
			}
			return nil
		},
	}
	show.Flags().StringVar(&candles, "candles", "", "Aggregate samples into OHLC candles: S1|S5|S15|S30|M1|M5|M15|M30|H1")
	cmd.AddCommand(show)

	var since time.Duration
	rng := &cobra.Command{
		Use:   "range <symbol>",
		Short: "Print every sample recorded for a symbol in the last --since window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			symbol := market.NormalizeSymbol(args[0])
			end := time.Now()
			samples, err := j.SamplesBetween(cmd.Context(), symbol, end.Add(-since), end)
			if err != nil {
				return fmt.Errorf("query samples: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "timestamp,price")
			for _, s := range samples {
				fmt.Fprintf(w, "%s,%s\n", s.Time.Format(journal.TimeLayout), s.Price)
			}
			return nil
		},
	}
	rng.Flags().DurationVar(&since, "since", 24*time.Hour, "How far back to look")
	cmd.AddCommand(rng)

	return cmd
}
