package client

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
)

var forceProcessCmd = &cobra.Command{
	Use:   "force-process [session-id]",
	Short: "Run the turn without waiting for the whole party",
	Args:  cobra.ExactArgs(1),
	RunE:  forceProcess,
}

func forceProcess(_ *cobra.Command, args []string) error {
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ForceProcess(ctx, &v1alpha1.SessionRequest{SessionID: args[0]})
	if err != nil {
		return describeError("failed to process turn", err)
	}

	printTurn(resp.Turn)
	return nil
}
