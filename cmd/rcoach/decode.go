package main

import (
	"os"

	"github.com/Zuo-Peng/replay-coach/internal/classify"
	"github.com/Zuo-Peng/replay-coach/internal/replay"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/spf13/cobra"
)

// decodeOutput is the chunk dump, optionally with the keyword facts the
// heuristic extractor would derive from the event texts.
type decodeOutput struct {
	replay.Dump
	Facts *classify.Facts `json:"facts,omitempty"`
}

func decodeFile(path string, withFacts bool) (decodeOutput, error) {
	rep, err := replay.DecodeFile(path)
	if err != nil {
		return decodeOutput{}, err
	}
	out := decodeOutput{Dump: rep.ToDump()}
	if withFacts {
		facts := classify.ClassifyTexts(rep.EventTexts)
		out.Facts = &facts
	}
	return out, nil
}

func decodeCmd() *cobra.Command {
	var (
		out   string
		facts bool
	)

	cmd := &cobra.Command{
		Use:   "decode <file.replay>",
		Short: "Dump the replay header and chunk summaries as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, err := decodeFile(args[0], facts)
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return report.Encode(w, dump)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Write JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&facts, "facts", false, "Include keyword facts estimated from event texts")

	return cmd
}
