package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/conversation"
	"lead-qualifier/internal/industry"
	"lead-qualifier/internal/lead"
	"lead-qualifier/internal/ledger"
	"lead-qualifier/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// transcriptFile is a recorded lead and the user turns to run through the
// service.
type transcriptFile struct {
	Lead     lead.Info `json:"lead"`
	Messages []string  `json:"messages"`
}

type replayTurn struct {
	User           string                       `json:"user"`
	Bot            string                       `json:"bot"`
	Classification *models.ClassificationResult `json:"classification,omitempty"`
	Warning        string                       `json:"warning,omitempty"`
}

type replayResult struct {
	ConversationID string                       `json:"conversationId"`
	Industry       string                       `json:"industry"`
	Greeting       string                       `json:"greeting"`
	Turns          []replayTurn                 `json:"turns"`
	Metadata       models.Metadata              `json:"metadata"`
	Classification *models.ClassificationResult `json:"classification,omitempty"`
	Finalized      bool                         `json:"finalized"`
}

type replayOptions struct {
	TurnInterval time.Duration
	Finalize     bool
	Start        time.Time
}

func replayCmd() *cobra.Command {
	var (
		file string
		opts replayOptions
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a recorded transcript through an in-memory service and print the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open transcript: %w", err)
			}
			defer f.Close()

			registry, err := industry.Load(cfg.Industries.Dir, log)
			if err != nil {
				return fmt.Errorf("load industries: %w", err)
			}
			opts.Start = time.Now().UTC()
			return runReplay(cmd.Context(), f, cmd.OutOrStdout(), registry, opts, log)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "transcript JSON file")
	cmd.Flags().DurationVar(&opts.TurnInterval, "turn-interval", time.Minute, "simulated time between user turns")
	cmd.Flags().BoolVar(&opts.Finalize, "finalize", true, "force a classification if the transcript ends unclassified")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// runReplay drives a fresh in-memory service with a fake clock that advances
// by TurnInterval before every user turn.
func runReplay(ctx context.Context, in io.Reader, out io.Writer, registry *industry.Registry, opts replayOptions, log logger.Logger) error {
	var t transcriptFile
	if err := json.NewDecoder(in).Decode(&t); err != nil {
		return fmt.Errorf("decode transcript: %w", err)
	}

	clock := clockwork.NewFakeClockAt(opts.Start)
	svc := conversation.NewService(conversation.LoadConfig(cfg), conversation.Dependencies{
		Repository: conversation.NewMemoryRepository(),
		Industries: registry,
		Ledger:     ledger.NewMemoryLedger(),
		Clock:      clock,
	}, log)

	created, err := svc.CreateConversation(ctx, "replay", t.Lead)
	if err != nil {
		return err
	}

	result := replayResult{
		ConversationID: created.ConversationID,
		Greeting:       created.Greeting,
		Turns:          []replayTurn{},
		Classification: created.Classification,
	}
	if t.Lead.InitialMessage != "" {
		result.Turns = append(result.Turns, replayTurn{
			User:           t.Lead.InitialMessage,
			Bot:            created.InitialReply,
			Classification: created.Classification,
		})
	}

	for _, text := range t.Messages {
		clock.Advance(opts.TurnInterval)
		turn, err := svc.SubmitUserMessage(ctx, created.ConversationID, "replay", text)
		if err != nil {
			return fmt.Errorf("turn %q: %w", text, err)
		}
		result.Turns = append(result.Turns, replayTurn{
			User:           text,
			Bot:            turn.BotResponse,
			Classification: turn.Classification,
			Warning:        turn.Warning,
		})
	}

	if opts.Finalize {
		fin, err := svc.Finalize(ctx, created.ConversationID, created.SessionID)
		if err != nil {
			return err
		}
		result.Finalized = fin.Applied
	}

	conv, err := svc.GetConversation(ctx, created.ConversationID)
	if err != nil {
		return err
	}
	result.Industry = conv.Industry.ID
	result.Metadata = conv.Metadata
	result.Classification = conv.Classification

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
