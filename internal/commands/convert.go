package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wordimp/internal/document"
)

func addConvert(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between " + strings.Join(document.SupportedFormats(), ", "),
		Long: "Convert a document to the format named by the output extension.\n" +
			"Paragraph styles the target cannot store are written to a\n" +
			"<name>.styles<ext> file next to it.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filepath.Clean(args[0]) == filepath.Clean(args[1]) {
				return fmt.Errorf("convert: input and output are the same file")
			}
			s, err := o.open(args[0])
			if err != nil {
				return err
			}
			return save(cmd, s, args[1])
		},
	}
	topLevel.AddCommand(cmd)
}
