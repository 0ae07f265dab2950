package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/markcheno/go-quote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Arzazrel/Project-LSMSDB-25/config"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/alphavantage"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/coingecko"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/logging"
	"github.com/Arzazrel/Project-LSMSDB-25/internal/yahoo"
	"github.com/Arzazrel/Project-LSMSDB-25/market"
)

// Yahoo is the subset of the Yahoo client the commands use.
type Yahoo interface {
	market.PriceSource
	Names(ctx context.Context, symbol string) (short, long string, err error)
	DisplayName(ctx context.Context, symbol string) (string, error)
	DailyHistory(ctx context.Context, symbol string) (quote.Quote, error)
}

// RootConfig carries global flags, the loaded configuration and the
// external clients shared by every subcommand. Fields left nil are filled
// in before a command runs.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	OutDir     string

	Cfg *config.Config
	Log *zap.Logger

	Yahoo        Yahoo
	Searcher     market.SymbolSearcher
	AlphaVantage *alphavantage.Client
	CoinGecko    *coingecko.Client

	Getenv func(string) string
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&RootConfig{})
}

func newRootCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "marketdata",
		Short:         "Market data download, conversion and live price tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.OutDir, "out-dir", "", "Directory output files are written to (or env "+config.EnvOutDir+")")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.setup(cmd)
	}

	cmd.AddCommand(
		newTrackCmd(rc),
		newHistoryCmd(rc),
		newBatchCmd(rc),
		newAlphaVantageCmd(rc),
		newCryptoCmd(rc),
		newNameCmd(rc),
		newEnrichCmd(rc),
		newCSVCmd(),
		newJournalCmd(rc),
		newScheduleCmd(rc),
		newConfigCmd(),
		newVersionCmd(),
	)

	return cmd
}

func (rc *RootConfig) setup(cmd *cobra.Command) error {
	if rc.Getenv == nil {
		rc.Getenv = os.Getenv
	}

	if rc.Cfg == nil {
		cfg := config.Default()
		if rc.ConfigPath != "" {
			loaded, err := config.LoadFromFile(rc.ConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		cfg.ApplyEnv(rc.Getenv)
		rc.Cfg = cfg
	}
	if rc.OutDir != "" {
		rc.Cfg.Output.Dir = rc.OutDir
	}
	if err := os.MkdirAll(rc.Cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	if rc.Log == nil {
		log, err := logging.New(rc.LogLevel)
		if err != nil {
			return err
		}
		rc.Log = log
	}

	if rc.Yahoo == nil {
		rc.Yahoo = yahoo.NewClient(rc.Log.Named("yahoo"))
	}
	if rc.Searcher == nil {
		rc.Searcher = yahoo.NewSearcher()
	}
	if rc.AlphaVantage == nil {
		rc.AlphaVantage = alphavantage.NewClient(rc.Cfg.AlphaVantage.APIKey)
	}
	if rc.CoinGecko == nil {
		rc.CoinGecko = coingecko.NewClient()
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "marketdata (dev)")
		},
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
