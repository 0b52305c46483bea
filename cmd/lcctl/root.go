package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/langcorrect-backend/internal/segment"
)

// cliContext carries flags shared by every subcommand and lazily builds the
// segmenter, which is slow to load.
type cliContext struct {
	plain bool
	light bool

	once sync.Once
	seg  *segment.Segmenter
	err  error
}

func (c *cliContext) segmenter() (*segment.Segmenter, error) {
	c.once.Do(func() {
		opts := segment.DefaultOptions()
		if c.light {
			opts = segment.Options{Punkt: true}
		}
		c.seg, c.err = segment.New(opts)
	})
	return c.seg, c.err
}

func newRootCommand() *cobra.Command {
	ctx := &cliContext{}

	rootCmd := &cobra.Command{
		Use:           "lcctl",
		Short:         "Developer tools for langcorrect",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&ctx.plain, "plain", false, "Plain tab-separated output even on a terminal")
	rootCmd.PersistentFlags().BoolVar(&ctx.light, "light", false, "Skip loading the Japanese and Chinese dictionaries")

	rootCmd.AddCommand(newSegmentCommand(ctx))
	rootCmd.AddCommand(newDiffCommand(ctx))
	rootCmd.AddCommand(newReconcileCommand(ctx))
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}

// readText returns args joined by spaces, or stdin when args is empty or "-".
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	return strings.Join(args, " "), nil
}

// readArg returns s, or the contents of the file when s starts with "@".
func readArg(s string) (string, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	}
	return s, nil
}
