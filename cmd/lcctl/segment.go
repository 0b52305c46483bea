package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
)

func newSegmentCommand(ctx *cliContext) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "segment [text|-]",
		Short: "Split text into the sentences an entry would store",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, ok := domain.NormalizeLanguage(lang)
			if !ok {
				return domain.NewValidationError("lang", "invalid language code")
			}
			body, err := readText(cmd, args)
			if err != nil {
				return err
			}
			seg, err := ctx.segmenter()
			if err != nil {
				return err
			}

			sentences := seg.Segment(body, code)
			rows := make([][]string, 0, len(sentences))
			for i, s := range sentences {
				rows = append(rows, []string{strconv.Itoa(i + 1), s})
			}
			return writeTable(cmd.OutOrStdout(), ctx.plain, []string{"#", "Sentence"}, rows)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "Language code of the text")
	return cmd
}
