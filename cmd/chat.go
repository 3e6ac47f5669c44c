package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tameralinada/ai-code-reviewer/internal/chat"
	"github.com/Tameralinada/ai-code-reviewer/internal/output"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive programming chat",
	Long: `Start an interactive chat with the review assistant.

The conversation keeps a bounded history so long sessions stay within
the model's context. Type 'exit' or press Ctrl-D to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chatRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chatRun(cmd *cobra.Command) error {
	engine, err := getEngine()
	if err != nil {
		return err
	}

	session := chat.NewSession(engine)
	ctx := cmd.Context()

	ui.Info("Chat started. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprintf(ui.Out, "%s ", output.Cyan(">"))
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		reply := session.Send(ctx, text)
		fmt.Fprintf(ui.Out, "\n%s\n\n", reply)
	}

	ui.Info("Chat ended after %d turns", len(session.Turns()))
	return scanner.Err()
}
