package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
	"github.com/nguyennehehe/banking-chatbot/pkg/sdk"
	"github.com/nguyennehehe/banking-chatbot/pkg/utils"
)

func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	backendURL := cfg.GetWithDefault("BACKEND_BASE_URL", "http://localhost:8080")
	apiKey := cfg.Get("API_KEY")
	if apiKey == "" {
		log.Fatal("[CHAT]: API_KEY not set in config or environment")
	}

	voice, err := chat.ParseVoice(cfg.Get("CHAT_VOICE"))
	if err != nil {
		log.Fatalf("[CHAT]: %v", err)
	}

	client := sdk.NewClient(backendURL, apiKey)

	ctx := context.Background()
	if err := startInteractiveSession(ctx, client, voice, cfg.GetBool("CHAT_SPEECH")); err != nil {
		log.Fatalf("[CHAT]: Failed to run interactive session: %v", err)
	}
}

// startInteractiveSession runs the terminal chat loop. Streamed reply
// fragments replace the in-progress line in place
func startInteractiveSession(ctx context.Context, client *sdk.Client, voice chat.Voice, speech bool) error {
	fmt.Println("Banking chatbot started. Type 'exit' to quit.")

	// Create a single session on startup for the entire conversation
	sess, err := client.CreateSession(ctx, &sdk.CreateSessionRequest{UserID: "commandline-user"})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	fmt.Printf("Session created: %s\n", sess.ID)
	for _, turn := range sess.Turns {
		fmt.Printf("%s: %s\n", turn.Role, turn.Content)
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		result, err := client.SendMessage(ctx, sess.ID, &sdk.PostMessageRequest{
			Content: input,
			Speech:  speech,
			Voice:   string(voice),
		}, func(text string) {
			// Replace the in-progress line with the accumulated reply
			fmt.Printf("\r\033[KAssistant: %s", text)
		})
		if err != nil {
			fmt.Printf("\nError: %v\n", err)
			continue
		}

		fmt.Printf("\r\033[KAssistant: %s\n", result.Reply.Content)
		if result.AudioError != "" {
			fmt.Printf("(%s)\n", result.AudioError)
		} else if result.AudioDataURI != "" {
			fmt.Println("(audio clip available in the web surface)")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}
