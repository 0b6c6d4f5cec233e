package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type insertOptions struct {
	Line   int
	Col    int
	List   bool
	Output string
}

func addInsert(topLevel *cobra.Command, root *rootOptions) {
	o := &insertOptions{}
	cmd := &cobra.Command{
		Use:   "insert <file> <object> [args...]",
		Short: "Insert a date, time, rule or the clipboard text",
		Long: "Insert the text produced by an insertion handler. Without --line the\n" +
			"text goes at the end of the document.",
		Example: "  wordimp insert notes.txt date\n" +
			"  wordimp insert notes.txt date \"Jan 2, 2006\" --line 1 --col 1\n" +
			"  wordimp insert notes.txt rule = 20",
		Args: func(cmd *cobra.Command, args []string) error {
			if o.List {
				return nil
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if o.List {
				_, _ = fmt.Fprintln(out, strings.Join(root.session().Insertions().Labels(), "\n"))
				return nil
			}

			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			b := s.Buffer()
			line := b.LineCount() - 1
			if cmd.Flags().Changed("line") {
				line = o.Line - 1
			}
			if line < 0 || line >= b.LineCount() {
				return fmt.Errorf("insert: line %d not in [1, %d]", line+1, b.LineCount())
			}
			col := len([]rune(b.LineText(line)))
			if cmd.Flags().Changed("col") {
				col = min(max(o.Col-1, 0), col)
			}
			s.MoveCaret(line, col)

			token, err := s.InsertObject(args[1], args[2:]...)
			if err != nil {
				return err
			}
			_, _ = faint.Fprintf(out, "inserted %q\n", token)
			return save(cmd, s, o.Output)
		},
	}
	cmd.Flags().IntVar(&o.Line, "line", 0, "paragraph to insert into, 1-based")
	cmd.Flags().IntVar(&o.Col, "col", 0, "character position within the paragraph, 1-based")
	cmd.Flags().BoolVar(&o.List, "list", false, "list the available objects")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "",
		"write to this file instead of overwriting the input")
	topLevel.AddCommand(cmd)
}
