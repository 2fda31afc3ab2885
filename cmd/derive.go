package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"

	"github.com/spf13/cobra"
)

var deriveCmd = &cobra.Command{
	Use:   "derive <income>",
	Short: "Print the suggested budget for a monthly income",
	Args:  cobra.ExactArgs(1),
	RunE:  runDerive,
}

func init() {
	rootCmd.AddCommand(deriveCmd)
}

func runDerive(_ *cobra.Command, args []string) error {
	income, err := cli.ParseAmount(args[0])
	if err != nil {
		return fmt.Errorf("income: %w", err)
	}
	if !income.IsPositive() {
		return errors.New("income must be a positive number")
	}

	cur := appCfg.General.Currency
	plan := budget.Derive(income)
	fmt.Println()
	fmt.Println(cli.RenderPlan(cur, plan))
	fmt.Printf("  Unallocated: %s\n\n", cli.FormatAmount(cur, income.Sub(plan.Total())))
	return nil
}
