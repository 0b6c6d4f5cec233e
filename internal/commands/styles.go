package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addStyles(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "styles <file>",
		Short: "List the paragraph styles of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			styles := s.ParagraphStyles()
			if len(styles) == 0 {
				_, _ = faint.Fprintln(out, "no paragraph styles")
				return nil
			}

			tbl := newTable("#", "Align", "Indent", "List", "Text")
			for _, i := range styles.Indices() {
				ps := styles[i]
				tbl.AddRow(i+1, ps.Alignment, ps.Indent, ps.List, s.Buffer().LineText(i))
			}
			tbl.RightAlign(0)
			_, _ = fmt.Fprintln(out, tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
