package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/cardmeta"
	"github.com/anime-shed/card-inspector-go/internal/narrative"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

type categoryOutput struct {
	Name          models.Category `json:"name"`
	Title         string          `json:"title"`
	DefaultSeries string          `json:"defaultSeries"`
	Default       bool            `json:"default,omitempty"`
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List card categories and their fallback series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := make([]categoryOutput, 0, len(models.AllCategories()))
			for _, c := range models.AllCategories() {
				out = append(out, categoryOutput{
					Name:          c,
					Title:         narrative.CollectionTitle(c),
					DefaultSeries: cardmeta.DefaultSeries(c),
					Default:       c == cfg.DefaultCategory(),
				})
			}

			if !ctx.useTable(cmd) {
				return writeJSON(cmd, out)
			}
			rows := make([][]string, 0, len(out))
			for _, c := range out {
				marker := ""
				if c.Default {
					marker = "*"
				}
				rows = append(rows, []string{string(c.Name), c.Title, c.DefaultSeries, marker})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Title", "Default Series", "Default"}, rows, nil))
			return nil
		},
	}
}
