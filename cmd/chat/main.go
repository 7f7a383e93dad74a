// Command chat runs the booking assistant as a terminal REPL against the
// same controller the API serves. Useful for exercising the booking flow and
// knowledge search without an HTTP client.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/appointbot/appointbot/internal/app/bootstrap"
	appconfig "github.com/appointbot/appointbot/internal/config"
	"github.com/appointbot/appointbot/internal/conversation"
	"github.com/appointbot/appointbot/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.NewWithWriter(cfg.LogLevel, "text", os.Stderr)
	ctx := context.Background()

	knowledgeStore, err := bootstrap.BuildKnowledgeStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build knowledge store", "error", err)
		os.Exit(1)
	}

	var search conversation.DocumentSearchProvider
	if knowledgeStore != nil {
		search = knowledgeStore
	}
	controller := conversation.NewController(search, logger, nil, conversation.Options{
		BookingKeywords: cfg.BookingKeywords,
		ResetKeywords:   cfg.ResetKeywords,
		PhoneRegion:     cfg.DefaultPhoneRegion,
		SearchTopK:      cfg.SearchTopK,
	})

	fmt.Println("Booking assistant. Say 'I want to book an appointment' to start, or ask about loaded documents.")
	fmt.Println("Type 'exit' or 'quit' to leave.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		fmt.Println(controller.HandleTurn(ctx, line))
		fmt.Println()
	}
	if err := scanner.Err(); err != nil {
		logger.Error("input error", "error", err)
		os.Exit(1)
	}
}
