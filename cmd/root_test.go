package cmd

import (
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cbudget/internal/advice"
	"github.com/theirongolddev/cbudget/internal/config"

	"github.com/shopspring/decimal"
)

func TestParseIncomeFlag(t *testing.T) {
	defer func() { flagIncome = "" }()

	flagIncome = ""
	got, err := parseIncomeFlag()
	if err != nil || !got.IsZero() {
		t.Fatalf("empty flag = %v, %v; want 0, nil", got, err)
	}

	flagIncome = "₹1,000"
	got, err = parseIncomeFlag()
	if err != nil || !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("parseIncomeFlag(₹1,000) = %v, %v; want 1000", got, err)
	}

	for _, bad := range []string{"abc", "0", "-5"} {
		flagIncome = bad
		if _, err := parseIncomeFlag(); err == nil {
			t.Fatalf("parseIncomeFlag(%q) succeeded, want error", bad)
		}
	}
}

func TestOpenAdvisorDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Advice.Enabled = false

	a, closeFn := openAdvisor(cfg)
	defer closeFn()
	if a != nil {
		t.Fatalf("advisor = %T, want nil when advice is off", a)
	}
}

func TestOpenAdvisorWithoutCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("CBUDGET_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg := config.DefaultConfig()
	cfg.General.Cache = false

	a, closeFn := openAdvisor(cfg)
	defer closeFn()
	if _, ok := a.(*advice.Service); !ok {
		t.Fatalf("advisor = %T, want *advice.Service", a)
	}
}

func TestOpenAdvisorCreatesCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("CBUDGET_API_KEY", "sk-test-key")

	a, closeFn := openAdvisor(config.DefaultConfig())
	defer closeFn()
	if a == nil {
		t.Fatal("advisor = nil, want a service")
	}
	if got, want := config.CachePath(), filepath.Join(dir, "cbudget", "advice.db"); got != want {
		t.Fatalf("CachePath() = %q, want %q", got, want)
	}
}

func TestNewLoggerDiscardsByDefault(t *testing.T) {
	flagVerbose, flagLogFile = false, ""
	l, closer, err := newLogger(config.LogConfig{Level: "info"})
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if closer != nil {
		t.Fatalf("closer = %v, want nil without a log file", closer)
	}
	if l.Enabled(t.Context(), 0) {
		t.Fatal("default logger should drop output")
	}
}

func TestNewLoggerFile(t *testing.T) {
	flagVerbose = false
	flagLogFile = filepath.Join(t.TempDir(), "logs", "cbudget.log")
	defer func() { flagLogFile = "" }()

	l, closer, err := newLogger(config.LogConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if closer == nil {
		t.Fatal("closer = nil, want the log file")
	}
	defer func() { _ = closer.Close() }()
	if !l.Enabled(t.Context(), -4) {
		t.Fatal("debug level should be enabled")
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, _, err := newLogger(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("newLogger(loud) succeeded, want error")
	}
}
