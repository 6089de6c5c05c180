// Package client provides command-line calls against a running narrator server
package client

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for a running narrator server",
	Long:  `Client commands call the game service over gRPC with the JSON codec.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")

	ClientCmd.AddCommand(submitActionCmd)
	ClientCmd.AddCommand(forceProcessCmd)
	ClientCmd.AddCommand(combatNextCmd)
	ClientCmd.AddCommand(watchCmd)
}

// createGameClient connects to the server
func createGameClient() (*v1alpha1.GameServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewGameServiceClient(conn), cleanup, nil
}

// describeError turns a gRPC status back into a readable error
func describeError(action string, err error) error {
	converted := errors.FromGRPCError(err)
	if errors.IsRetryable(converted) {
		return fmt.Errorf("%s: %s (retry shortly)", action, errors.GetMessage(converted))
	}
	return fmt.Errorf("%s: %w", action, converted)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
