// Package main is the entry point for the narrator server and its client commands
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrator/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-narrator",
	Short: "Multiplayer narrated game coordinator",
	Long: `rpg-narrator gathers each party member's action, asks a narrator for the
next passage, applies the state tags it contains and pushes the results to
connected clients.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
