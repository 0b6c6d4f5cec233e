package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func addStats(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Count characters, words and paragraphs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(args[0])
			if err != nil {
				return err
			}
			st := s.Stats()
			tbl := newTable("Document", s.Title())
			tbl.AddRow("Format", strings.TrimPrefix(filepath.Ext(args[0]), "."))
			tbl.AddRow("Paragraphs", s.Buffer().LineCount())
			tbl.AddRow("Lines", st.Lines)
			tbl.AddRow("Words", st.Words)
			tbl.AddRow("Characters", st.Chars)
			tbl.AddRow("Styled paragraphs", len(s.ParagraphStyles()))
			tbl.RightAlign(0)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
