package cmd

import (
	"os"

	"github.com/theirongolddev/cbudget/internal/chat"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Plan a budget in a line-by-line conversation (default)",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	income, err := parseIncomeFlag()
	if err != nil {
		return err
	}

	advisor, closeAdvisor := openAdvisor(appCfg)
	defer closeAdvisor()

	sess := newSession()
	sh := chat.New(os.Stdin, os.Stdout, sess, advisor, chat.Options{
		Income: income,
		Quiet:  flagQuiet,
		Log:    appLog.WithComponent("chat"),
	})
	return sh.Run(cmd.Context())
}
