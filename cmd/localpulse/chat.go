package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localpulse/localpulse/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the LocalPulse assistant",
	Long:  "Start an interactive conversation with the on-platform assistant. Type /reset to start over and /quit to leave.",
	RunE:  runChat,
}

var chatAPIKey string

func init() {
	chatCmd.Flags().StringVar(&chatAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	gw, client, err := newGateway(ctx, chatAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Println("LocalPulse assistant. Type /reset to start over, /quit to leave.")

	var history []types.Turn
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		message := strings.TrimSpace(scanner.Text())
		switch {
		case message == "":
			continue
		case message == "/quit":
			return nil
		case message == "/reset":
			history = nil
			fmt.Println("Conversation reset.")
			continue
		}

		reply := gw.Chat(ctx, history, message)
		fmt.Println(reply)

		history = append(history,
			types.Turn{Role: types.RoleUser, Text: message},
			types.Turn{Role: types.RoleModel, Text: reply},
		)
	}

	return scanner.Err()
}
