package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wordimp/internal/app"
	"wordimp/internal/editing"
)

type findOptions struct {
	CaseSensitive bool
	From          int
	Wrap          bool
}

func addFindArgs(cmd *cobra.Command, o *findOptions) {
	cmd.Flags().BoolVarP(&o.CaseSensitive, "case-sensitive", "c", false,
		"match case exactly")
	cmd.Flags().BoolVar(&o.Wrap, "wrap", false,
		"continue from the start of the document when nothing follows the start offset")
}

func addFind(topLevel *cobra.Command, root *rootOptions) {
	o := &findOptions{}
	cmd := &cobra.Command{
		Use:   "find <file> <query>",
		Short: "List occurrences of a literal string",
		Long: "List every occurrence of query. With --from, report only the next\n" +
			"occurrence at or after that character offset.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			query := args[1]

			if cmd.Flags().Changed("from") {
				start, ok, err := editing.NextOccurrence(s.Buffer().Text(), query, o.From, o.CaseSensitive, o.Wrap)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = faint.Fprintf(out, "%q not found\n", query)
					return nil
				}
				end := start + len([]rune(query))
				return printMatch(out, s, editing.Span{Start: start, End: end})
			}

			matches := s.Find(query, o.CaseSensitive)
			for _, span := range matches.Spans {
				if err := printMatch(out, s, span); err != nil {
					return err
				}
			}
			_, _ = faint.Fprintf(out, "%d match(es)\n", matches.Count())
			return nil
		},
	}
	addFindArgs(cmd, o)
	cmd.Flags().IntVar(&o.From, "from", 0,
		"character offset to search from")
	topLevel.AddCommand(cmd)
}

// printMatch writes "line:col  text" with the match highlighted. Matches
// that cross a paragraph break are highlighted to the end of the first
// paragraph.
func printMatch(w io.Writer, s *app.Session, span editing.Span) error {
	b := s.Buffer()
	start, err := b.PosAt(span.Start)
	if err != nil {
		return err
	}
	end, err := b.PosAt(span.End)
	if err != nil {
		return err
	}
	text := b.LineText(start.Line)
	to := end.Col
	if end.Line != start.Line {
		to = len([]rune(text))
	}
	_, _ = fmt.Fprintf(w, "%s  %s\n", faint.Sprintf("%d:%d", start.Line+1, start.Col+1), highlight(text, start.Col, to))
	return nil
}
