package tui

import (
	"strings"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues backs the first-run setup form.
type setupValues struct {
	provider string
	apiKey   string
	currency string
	theme    string
	saveErr  error
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		provider: cfg.Advice.Provider,
		currency: cfg.General.Currency,
		theme:    cfg.Appearance.Theme,
	}
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cbudget!").
				Description("Let's set up a few things. Settings are saved to\n" + config.Path()),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Advice provider").
				Description("Where budgeting advice comes from.").
				Options(
					huh.NewOption("OpenAI (needs an API key)", config.ProviderOpenAI),
					huh.NewOption("Ollama (local, no key)", config.ProviderOllama),
				).
				Value(&v.provider),
			huh.NewInput().
				Title("API key").
				Description("Leave blank to use CBUDGET_API_KEY or OPENAI_API_KEY.").
				EchoMode(huh.EchoModePassword).
				Value(&v.apiKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
		),
	).WithShowHelp(true)
}

// applySetup merges the form answers into cfg.
func applySetup(cfg config.Config, v *setupValues) config.Config {
	if v.provider != "" {
		cfg.Advice.Provider = v.provider
	}
	if key := strings.TrimSpace(v.apiKey); key != "" {
		cfg.Advice.APIKey = key
	}
	if cur := strings.TrimSpace(v.currency); cur != "" {
		cfg.General.Currency = cur
	}
	if v.theme != "" {
		cfg.Appearance.Theme = v.theme
	}
	return cfg
}

// saveSetupConfig writes the answers and activates the chosen theme. A save
// failure is kept so the settings still apply to this session.
func (a *App) saveSetupConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	cfg = applySetup(cfg, a.setupVals)
	theme.SetActive(cfg.Appearance.Theme)
	a.setupVals.saveErr = config.Save(cfg)
	if a.setupVals.saveErr != nil {
		a.log.Warn("saving setup config failed", "err", a.setupVals.saveErr)
	}
	return cfg
}
