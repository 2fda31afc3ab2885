package cmd

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/tui"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Plan a budget in the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	income, err := parseIncomeFlag()
	if err != nil {
		return err
	}

	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor so background styling survives non-tty detection.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Setup can rebuild the advisor; every cache opened along the way is
	// closed on exit.
	var closers []func()
	defer func() {
		for _, c := range closers {
			c()
		}
	}()
	advisorFor := func(cfg config.Config) budget.Advisor {
		if flagNoAdvice {
			cfg.Advice.Enabled = false
		}
		if flagNoCache {
			cfg.General.Cache = false
		}
		a, closeFn := openAdvisor(cfg)
		closers = append(closers, closeFn)
		return a
	}

	app := tui.NewApp(newSession(), advisorFor(appCfg), tui.Options{
		Income:     income,
		Setup:      !config.Exists(),
		AdvisorFor: advisorFor,
		Context:    cmd.Context(),
		Log:        appLog.WithComponent("tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
