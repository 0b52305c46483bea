package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/langcorrect-backend/internal/diff"
)

func newDiffCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <original> <corrected>",
		Short: "Render the diff fragments shown for a correction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := readArg(args[0])
			if err != nil {
				return err
			}
			corrected, err := readArg(args[1])
			if err != nil {
				return err
			}

			fragments := diff.Render(original, corrected)
			rows := make([][]string, 0, len(fragments))
			for i, f := range fragments {
				rows = append(rows, []string{strconv.Itoa(i + 1), f.Op.String(), strconv.Quote(f.Text)})
			}
			return writeTable(cmd.OutOrStdout(), ctx.plain, []string{"#", "Op", "Text"}, rows)
		},
	}
}
