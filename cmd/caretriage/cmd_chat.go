package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/assessment"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/conversation"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/backend"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/console"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive symptom conversation",
	Long: `Start a guided symptom conversation against the triage service.

The assistant collects symptoms turn by turn, raises risk alerts when
red flags appear, and offers a patient report once enough has been
gathered. Slash commands switch views: /intake, /risk, /report,
/fetch <id>, /new, /help, /quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("stream", false, "Chat over the websocket streaming channel instead of request/response")
	chatCmd.Flags().String("session", "", "Session id to resume (stream mode only; default: new session)")
	chatCmd.Flags().String("language", "", "Preferred language for personalized advice")
	chatCmd.Flags().String("region", "", "Region for culturally adapted recommendations")
	chatCmd.Flags().StringSlice("diet", nil, "Dietary preferences, e.g. --diet vegetarian")
}

func runChat(cmd *cobra.Command, args []string) error {
	_, log, client, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if stream, _ := cmd.Flags().GetBool("stream"); stream {
		sessionID, _ := cmd.Flags().GetString("session")
		return runStreamChat(ctx, client, sessionID, log)
	}

	session := conversation.NewSession(client, log)
	workflow := assessment.NewWorkflow(client, client, log)
	if prefs := preferencesFromFlags(cmd); prefs != nil {
		session.SetPreferences(prefs)
		workflow.SetPreferences(prefs)
	}

	app := console.NewApp(session, workflow, client, os.Stdin, os.Stdout, log)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runStreamChat is the raw websocket loop: lines in, frames out, no
// correlation between the two beyond arrival order.
func runStreamChat(ctx context.Context, client *backend.Client, sessionID string, log zerolog.Logger) error {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	stream, err := client.DialChatStream(ctx, sessionID,
		func(resp triage.ChatResponse) {
			fmt.Printf("\nAssistant: %s\n", resp.Message)
			if resp.RiskAlert != nil {
				badge := console.PresentRisk(*resp.RiskAlert)
				fmt.Printf("%s %s  [%s] %d%%\n", badge.Icon, badge.Title, badge.ScoreBar(20), badge.Percent)
			}
			fmt.Print("\nYou: ")
		},
		func(err error) {
			log.Error().Err(err).Msg("stream error")
		})
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Printf("Connected to session %s over websocket. Type /quit to end.\n", sessionID)
	fmt.Print("\nYou: ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		case <-stream.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			fmt.Print("You: ")
		case line == "/quit" || line == "/exit":
			fmt.Println("Take care! 👋")
			return nil
		default:
			if err := stream.Send(line); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// preferencesFromFlags builds user preferences from the chat/analyze flags.
// Returns nil when no preference flag was set, so requests omit the field
// entirely and the service applies its defaults.
func preferencesFromFlags(cmd *cobra.Command) *triage.UserPreferences {
	language, _ := cmd.Flags().GetString("language")
	region, _ := cmd.Flags().GetString("region")
	diet, _ := cmd.Flags().GetStringSlice("diet")

	if language == "" && region == "" && len(diet) == 0 {
		return nil
	}

	prefs := triage.DefaultUserPreferences()
	if language != "" {
		prefs.Language = language
	}
	if region != "" {
		prefs.Region = region
	}
	prefs.DietaryPreferences = diet
	return &prefs
}
