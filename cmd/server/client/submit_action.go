package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
)

var submitActionCmd = &cobra.Command{
	Use:   "submit-action [session-id] [character-id] [text...]",
	Short: "Submit a character's action for the current turn",
	Long: `Queue an action. The turn runs once every party member has acted. Example:

  submit-action session-1 char-elara I read the runes on the altar`,
	Args: cobra.MinimumNArgs(3),
	RunE: submitAction,
}

func submitAction(_ *cobra.Command, args []string) error {
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.SubmitAction(ctx, &v1alpha1.SubmitActionRequest{
		SessionID:   args[0],
		CharacterID: args[1],
		Text:        strings.Join(args[2:], " "),
	})
	if err != nil {
		return describeError("failed to submit action", err)
	}

	if !resp.Processed {
		fmt.Printf("Action queued, waiting on %d more\n", resp.Waiting)
		return nil
	}

	printTurn(resp.Turn)
	return nil
}

func printTurn(t *v1alpha1.TurnResult) {
	if t == nil {
		return
	}

	fmt.Printf("Turn %d\n", t.Turn)
	fmt.Printf("===================\n")
	fmt.Println(t.Narration)

	if len(t.Changes) > 0 {
		fmt.Printf("\nChanges:\n")
		for _, c := range t.Changes {
			fmt.Printf("  [%s] %s\n", c.Kind, c.Description)
		}
	}
	if len(t.Skipped) > 0 {
		fmt.Printf("\nSkipped:\n")
		for _, s := range t.Skipped {
			fmt.Printf("  %s\n", s.Error())
		}
	}
	if t.Compacted {
		fmt.Printf("\nHistory summarized\n")
	}
	if t.SummaryFailed {
		fmt.Printf("\nSummary update failed, will retry next turn\n")
	}
}
