package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wordimp/internal/recent"
)

func addRecent(topLevel *cobra.Command, root *rootOptions) {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened and saved documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			entries := root.recentList().List(cmd.Context())
			if len(entries) == 0 {
				_, _ = faint.Fprintln(out, "no recent documents")
				return nil
			}
			tbl := newTable("When", "Action", "Format", "Path")
			for _, e := range entries {
				tbl.AddRow(e.At.Local().Format("2006-01-02 15:04"), e.Action, e.Format, e.Path)
			}
			_, _ = fmt.Fprintln(out, tbl)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recent documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.recentList().Clear()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <path>",
		Short: "Forget one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.recentList().Remove(args[0])
		},
	})
	topLevel.AddCommand(cmd)
}

// recentList opens the store even when --no-recent is set, since that flag
// only stops recording.
func (o *rootOptions) recentList() *recent.Store {
	return recent.Open(o.cfg.Recent.Dir, o.cfg.Recent.Max)
}
