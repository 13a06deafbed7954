package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/atlastravel/atlas/internal/agent"
	"github.com/atlastravel/atlas/internal/db"
	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/history"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive planning conversation",
	Long: `Opens an interactive conversation with the travel assistant. The
transcript is persisted, so a session can be resumed later with
--session. Type "exit" or press Ctrl+D to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("session", "", "resume an existing chat session by id")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}

	svc, engine, _, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "atlas.db"))
	if err != nil {
		return fmt.Errorf("opening chat database: %w", err)
	}
	defer database.Close()
	hist := history.NewStore(database)

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sess, err := hist.CreateSession(ctx, "chat "+time.Now().Format("2006-01-02 15:04"))
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = sess.ID
		fmt.Printf("Started session %s\n", sessionID)
	} else if _, err := hist.GetSession(ctx, sessionID); err != nil {
		return fmt.Errorf("resuming session %s: %w", sessionID, err)
	}

	prof, err := svc.Profile()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	fmt.Println(`Ask me to plan a trip, e.g. "4 days in Lisbon in June on a budget".`)

	prompt := promptui.Prompt{Label: "you"}
	for {
		input, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				fmt.Println("Bye!")
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Bye!")
			return nil
		}

		transcript, err := hist.Messages(ctx, sessionID, cfg.HistoryLimit)
		if err != nil {
			return fmt.Errorf("loading transcript: %w", err)
		}

		userMsg := domain.Message{Role: domain.RoleUser, Content: input, Timestamp: time.Now().UTC()}
		messages := make([]domain.Message, 0, len(transcript)+2)
		messages = append(messages, agent.SystemMessage(prof))
		messages = append(messages, transcript...)
		messages = append(messages, userMsg)

		result, err := engine.Run(ctx, messages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		if err := hist.AppendMessage(ctx, sessionID, userMsg); err != nil {
			return fmt.Errorf("saving message: %w", err)
		}
		reply := domain.Message{Role: domain.RoleAssistant, Content: result.Content, Timestamp: time.Now().UTC()}
		if err := hist.AppendMessage(ctx, sessionID, reply); err != nil {
			return fmt.Errorf("saving message: %w", err)
		}

		fmt.Printf("\natlas: %s\n\n", result.Content)
	}
}
