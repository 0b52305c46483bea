package main

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/langcorrect-backend/internal/domain"
	"github.com/heartmarshall/langcorrect-backend/internal/reconcile"
)

type reconcileOptions struct {
	lang     string
	title    string
	newTitle string
}

func newReconcileCommand(ctx *cliContext) *cobra.Command {
	var opts reconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile <old body> <new body>",
		Short: "Dry-run the row plan produced by editing an entry",
		Long: "Builds the rows for the old body as if the entry were new, then prints the\n" +
			"plan that editing it to the new body would apply. Prefix an argument with @\n" +
			"to read it from a file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, ok := domain.NormalizeLanguage(opts.lang)
			if !ok {
				return domain.NewValidationError("lang", "invalid language code")
			}
			oldBody, err := readArg(args[0])
			if err != nil {
				return err
			}
			newBody, err := readArg(args[1])
			if err != nil {
				return err
			}
			seg, err := ctx.segmenter()
			if err != nil {
				return err
			}

			newTitle := opts.newTitle
			if newTitle == "" {
				newTitle = opts.title
			}

			rows, plan := dryRun(
				domain.NormalizeTitle(opts.title), seg.Segment(oldBody, code),
				domain.NormalizeTitle(newTitle), seg.Segment(newBody, code),
			)
			return writeTable(cmd.OutOrStdout(), ctx.plain, []string{"Change", "Row", "Position", "Text"}, planRows(rows, plan))
		},
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "en", "Language code of the text")
	cmd.Flags().StringVar(&opts.title, "title", "Untitled", "Entry title")
	cmd.Flags().StringVar(&opts.newTitle, "new-title", "", "Title after the edit (defaults to --title)")
	return cmd
}

// dryRun materialises the rows for the old text and plans the edit to the
// new text. Row IDs are sequential so the output is stable.
func dryRun(oldTitle string, oldSegments []string, newTitle string, newSegments []string) ([]domain.SentenceRow, reconcile.Plan) {
	entryID := uuid.Nil
	var n uint32
	nextID := func() uuid.UUID {
		n++
		var id uuid.UUID
		id[12], id[13], id[14], id[15] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
		return id
	}

	initial := reconcile.Reconcile(entryID, oldTitle, oldSegments, nil)
	rows := reconcile.Apply(nil, initial, nextID)
	return rows, reconcile.Reconcile(entryID, newTitle, newSegments, rows)
}

func planRows(existing []domain.SentenceRow, plan reconcile.Plan) [][]string {
	text := make(map[uuid.UUID]string, len(existing))
	for _, r := range existing {
		text[r.ID] = r.Text
	}
	short := func(id uuid.UUID) string { return id.String()[24:] }

	var out [][]string
	for _, c := range plan.Creates {
		out = append(out, []string{"create", "-", strconv.Itoa(c.Position), c.Text})
	}
	for _, u := range plan.Updates {
		t := text[u.RowID]
		if u.Text != nil {
			t = *u.Text
		}
		out = append(out, []string{"update", short(u.RowID), strconv.Itoa(u.Position), t})
	}
	for _, id := range plan.Deactivations {
		out = append(out, []string{"deactivate", short(id), "-", text[id]})
	}
	if len(out) == 0 {
		out = append(out, []string{"none", "-", "-", "-"})
	}
	return out
}
