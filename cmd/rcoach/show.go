package main

import (
	"fmt"

	"github.com/Zuo-Peng/replay-coach/internal/render"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var hitNoteID int
	var context int
	var query string

	cmd := &cobra.Command{
		Use:     "show <report>",
		Aliases: []string{"preview"},
		Short:   "Show a report's headline numbers and notes around a hit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			out, _, err := render.RenderReport(db, args[0], render.Options{
				HitNoteID: hitNoteID,
				Context:   context,
				Query:     query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hitNoteID, "hit", -1, "Note ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Notes before/after hit to show (-1 = all)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
