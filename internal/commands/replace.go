package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wordimp/internal/editing"
)

type replaceOptions struct {
	findOptions
	All    bool
	DryRun bool
	Output string
}

func addReplace(topLevel *cobra.Command, root *rootOptions) {
	o := &replaceOptions{}
	cmd := &cobra.Command{
		Use:   "replace <file> <query> <replacement>",
		Short: "Replace occurrences of a literal string",
		Long: "Replace the first occurrence at or after --start, or every occurrence\n" +
			"with --all. Styling on text outside the replaced spans is kept.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			query, replacement := args[1], args[2]
			before := s.Buffer().Text()

			var res editing.ReplacementSummary
			if o.All {
				res, err = s.ReplaceAll(query, replacement, o.CaseSensitive)
			} else {
				pos, perr := s.Buffer().PosAt(o.From)
				if perr != nil {
					return perr
				}
				s.MoveCaret(pos.Line, pos.Col)
				res, err = s.ReplaceNext(query, replacement, o.CaseSensitive, o.Wrap)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if o.DryRun {
				writeDiff(out, before, s.Buffer().Text())
				_, _ = faint.Fprintf(out, "%d replacement(s), not saved\n", res.Count)
				return nil
			}
			if res.Count == 0 {
				_, _ = faint.Fprintf(out, "%q not found\n", query)
				return nil
			}
			_, _ = fmt.Fprintf(out, "Replaced %d occurrence(s)\n", res.Count)
			return save(cmd, s, o.Output)
		},
	}
	addFindArgs(cmd, &o.findOptions)
	cmd.Flags().IntVar(&o.From, "start", 0,
		"character offset to search from when replacing a single occurrence")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"replace every occurrence")
	cmd.Flags().BoolVarP(&o.DryRun, "dry-run", "n", false,
		"print the changes instead of saving them")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "",
		"write to this file instead of overwriting the input")
	topLevel.AddCommand(cmd)
}
