package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/repository"
)

const maxListLimit = 1000

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved cards, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 || limit > maxListLimit {
				return fmt.Errorf("--limit must be between 1 and %d", maxListLimit)
			}
			ctr, err := ctx.ensureContainer()
			if err != nil {
				return err
			}
			cards, err := ctr.Service().ListCards(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if cards == nil {
				cards = []*repository.StoredCard{}
			}

			if !ctx.useTable(cmd) {
				return writeJSON(cmd, cards)
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved cards")
				return nil
			}
			renderStoredCards(cmd, cards)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", repository.DefaultListLimit, "Maximum cards to list")

	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctr, err := ctx.ensureContainer()
			if err != nil {
				return err
			}
			card, err := ctr.Service().GetCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !ctx.useTable(cmd) {
				return writeJSON(cmd, card)
			}
			renderStoredCards(cmd, []*repository.StoredCard{card})
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", card.Result.Story)
			return nil
		},
	}
}
