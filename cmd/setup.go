package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/spf13/cobra"
)

// errSetupAborted is returned when input ends before the wizard finishes.
var errSetupAborted = errors.New("setup aborted: input ended, config not saved")

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	return setupWizard(os.Stdin, os.Stdout)
}

// setupWizard asks each question on out and saves the answers to the config
// file. Nothing is saved when in ends early.
func setupWizard(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	ask := func() (string, error) {
		fmt.Fprint(out, "     > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("reading input: %w", err)
			}
			// A final line without a newline still counts.
			if line == "" {
				fmt.Fprintln(out)
				return "", errSetupAborted
			}
		}
		return strings.TrimSpace(line), nil
	}

	// Start from the file on disk, not the flag-adjusted appCfg.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Welcome to cbudget!")
	fmt.Fprintln(out)

	// 1. Provider
	fmt.Fprintln(out, "  1. Advice provider")
	fmt.Fprintln(out, "     (1) OpenAI [default]")
	fmt.Fprintln(out, "     (2) Ollama (local)")
	fmt.Fprintln(out, "     (3) None, skip advice")
	choice, err := ask()
	if err != nil {
		return err
	}
	switch choice {
	case "2":
		cfg.Advice.Enabled = true
		cfg.Advice.Provider = config.ProviderOllama
		if cfg.Advice.Model == "" || cfg.Advice.Model == config.DefaultConfig().Advice.Model {
			cfg.Advice.Model = "llama3.2"
		}
	case "3":
		cfg.Advice.Enabled = false
	default:
		cfg.Advice.Enabled = true
		cfg.Advice.Provider = config.ProviderOpenAI
	}
	fmt.Fprintln(out)

	// 2. API key
	if cfg.Advice.Enabled && cfg.Advice.Provider == config.ProviderOpenAI {
		fmt.Fprintln(out, "  2. OpenAI API key")
		fmt.Fprintln(out, "     Leave blank to keep the current key or use OPENAI_API_KEY.")
		if existing := config.GetAPIKey(cfg); existing != "" {
			fmt.Fprintf(out, "     Current: %s\n", config.MaskKey(existing))
		}
		key, err := ask()
		if err != nil {
			return err
		}
		if key != "" {
			cfg.Advice.APIKey = key
		}
		fmt.Fprintln(out)
	}

	// 3. Model
	if cfg.Advice.Enabled {
		fmt.Fprintf(out, "  3. Model [%s]\n", cfg.Advice.Model)
		model, err := ask()
		if err != nil {
			return err
		}
		if model != "" {
			cfg.Advice.Model = model
		}
		fmt.Fprintln(out)
	}

	// 4. Currency
	fmt.Fprintf(out, "  4. Currency symbol [%s]\n", cfg.General.Currency)
	cur, err := ask()
	if err != nil {
		return err
	}
	if cur != "" {
		cfg.General.Currency = cur
	}
	fmt.Fprintln(out)

	// 5. Theme
	fmt.Fprintln(out, "  5. Color theme")
	names := theme.Names()
	for i, name := range names {
		suffix := ""
		if name == cfg.Appearance.Theme {
			suffix = " [current]"
		}
		fmt.Fprintf(out, "     (%d) %s%s\n", i+1, name, suffix)
	}
	choice, err = ask()
	if err != nil {
		return err
	}
	for i, name := range names {
		if choice == fmt.Sprint(i+1) || choice == name {
			cfg.Appearance.Theme = name
		}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Saved to %s\n", config.Path())
	fmt.Fprintln(out, "  Run `cbudget setup` anytime to reconfigure.")
	fmt.Fprintln(out)
	return nil
}
