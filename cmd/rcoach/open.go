package main

import (
	"github.com/Zuo-Peng/replay-coach/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var hitNoteID int

	cmd := &cobra.Command{
		Use:   "open <report>",
		Short: "Open a report in $EDITOR, at the hit line for coaching notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenReport(db, args[0], hitNoteID)
		},
	}

	cmd.Flags().IntVar(&hitNoteID, "hit", -1, "Note ID to jump to")

	return cmd
}
