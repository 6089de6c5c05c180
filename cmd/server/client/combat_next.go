package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
)

var combatNextCmd = &cobra.Command{
	Use:   "combat-next [session-id]",
	Short: "Advance the session's active combat to the next combatant",
	Args:  cobra.ExactArgs(1),
	RunE:  combatNext,
}

func combatNext(_ *cobra.Command, args []string) error {
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	active, err := client.GetActiveCombat(ctx, &v1alpha1.SessionRequest{SessionID: args[0]})
	if err != nil {
		return describeError("failed to find active combat", err)
	}

	resp, err := client.NextTurn(ctx, &v1alpha1.CombatRequest{CombatID: active.Combat.ID})
	if err != nil {
		return describeError("failed to advance combat", err)
	}

	c := resp.Combat
	fmt.Printf("%s: round %d\n", c.Name, c.Round)
	for i, cb := range c.Combatants {
		marker := "  "
		if i == c.CurrentTurn {
			marker = "> "
		}
		status := ""
		if !cb.IsActive {
			status = " (down)"
		}
		fmt.Printf("%s%-20s init %2d  HP %d/%d  AC %d%s\n",
			marker, cb.Name, cb.Initiative, cb.HP, cb.MaxHP, cb.AC, status)
	}
	return nil
}
