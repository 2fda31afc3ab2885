package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/cbudget/internal/advice"
	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/logging"
	"github.com/theirongolddev/cbudget/internal/store"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Cached advice older than this is pruned when the cache is opened.
const cacheMaxAge = 30 * 24 * time.Hour

var (
	flagIncome   string
	flagCurrency string
	flagNoAdvice bool
	flagNoCache  bool
	flagQuiet    bool
	flagVerbose  bool
	flagLogFile  string
)

// Loaded once per invocation by PersistentPreRunE.
var (
	appCfg  config.Config
	appLog  = logging.Discard()
	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "cbudget",
	Short: "Budget planning assistant",
	Long: "Plan a monthly budget: enter your income, get a suggested allocation,\n" +
		"record expenses, and get budgeting advice.",
	SilenceUsage:       true,
	PersistentPreRunE:  loadAppConfig,
	PersistentPostRunE: teardown,
	RunE:               runChat,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagIncome, "income", "", "Monthly income; skips the income question")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency symbol (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoAdvice, "no-advice", false, "Do not request budgeting advice")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Do not read or write the advice cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Skip the greeting")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")
}

// loadAppConfig loads .env and the config file and builds the logger.
func loadAppConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "  Warning: reading .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagCurrency != "" {
		cfg.General.Currency = flagCurrency
	}
	if flagNoCache {
		cfg.General.Cache = false
	}
	if flagNoAdvice {
		cfg.Advice.Enabled = false
	}
	appCfg = cfg

	appLog, logSink, err = newLogger(cfg.Log)
	if err != nil {
		return err
	}
	appLog.Debug("starting", "command", cmd.Name(), "config", config.Path())
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logSink != nil {
		return logSink.Close()
	}
	return nil
}

// newLogger sends logs to --log-file (or [log].file) at the configured
// level, or to stderr with --verbose. Otherwise logs are dropped so the
// interactive shells own the terminal.
func newLogger(lc config.LogConfig) (*logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}

	path := flagLogFile
	if path == "" {
		path = lc.File
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	switch {
	case path != "":
		f, err := logging.OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		cfg.Output = f
		if flagVerbose {
			cfg.Level = slog.LevelDebug
		}
		return logging.New(cfg), f, nil
	case flagVerbose:
		cfg.Level = slog.LevelDebug
		return logging.New(cfg), nil, nil
	}
	return logging.Discard(), nil, nil
}

// newSession starts a budget session with the configured currency.
func newSession() *budget.Session {
	return budget.NewSession(
		budget.WithCurrency(appCfg.General.Currency),
		budget.WithLogger(appLog),
	)
}

// parseIncomeFlag returns the --income value, or zero when unset.
func parseIncomeFlag() (decimal.Decimal, error) {
	if strings.TrimSpace(flagIncome) == "" {
		return decimal.Zero, nil
	}
	income, err := cli.ParseAmount(flagIncome)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--income: %w", err)
	}
	if !income.IsPositive() {
		return decimal.Zero, errors.New("--income must be a positive number")
	}
	return income, nil
}

// openAdvisor builds the advisor for cfg. The returned close function
// releases the cache and is always safe to call. A nil advisor means
// advice is off.
func openAdvisor(cfg config.Config) (budget.Advisor, func()) {
	if !cfg.Advice.Enabled {
		return nil, func() {}
	}

	var cache *store.Cache
	if cfg.General.Cache {
		c, err := store.Open(config.CachePath())
		if err != nil {
			appLog.Warn("advice cache unavailable", "err", err)
		} else {
			cache = c
			if n, err := cache.Prune(time.Now().Add(-cacheMaxAge)); err != nil {
				appLog.Warn("pruning advice cache failed", "err", err)
			} else if n > 0 {
				appLog.Debug("pruned advice cache", "removed", n)
			}
		}
	}

	a := advice.New(cfg.Advice, config.GetAPIKey(cfg), cache, appLog.WithComponent("advice"))
	return a, func() {
		if cache != nil {
			_ = cache.Close()
		}
	}
}
