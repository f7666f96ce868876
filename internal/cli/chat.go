package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive command REPL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer application.close()

		fmt.Println("Cavista chat. Type a command, or 'exit' to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			contract := application.orchestrator.HandleCommand(ctx, line, nil)
			fmt.Println(contract.ShowText)
			for i, action := range contract.Actions {
				fmt.Printf("  [%d] %s -> %s\n", i+1, action.Label, action.Command)
			}
			for _, file := range contract.Files {
				fmt.Printf("  file: %s (%s)\n", file.Name, file.URL)
			}

			if ctx.Err() != nil {
				return nil
			}
		}
	},
}
