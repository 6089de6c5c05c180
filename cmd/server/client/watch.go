package client

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
)

var watchCmd = &cobra.Command{
	Use:   "watch [session-id]",
	Short: "Print a session's notifications as JSON lines until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE:  watch,
}

func watch(_ *cobra.Command, args []string) error {
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stream, err := client.WatchSession(ctx, &v1alpha1.SessionRequest{SessionID: args[0]})
	if err != nil {
		return describeError("failed to watch session", err)
	}

	for {
		msg, err := stream.Recv()
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return describeError("watch ended", err)
		}
		if err := printJSON(msg); err != nil {
			return err
		}
	}
}
