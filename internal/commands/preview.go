package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wordimp/internal/render"
)

type previewOptions struct {
	Output string
	Width  int
	Margin int
	DPI    float64
}

func addPreview(topLevel *cobra.Command, root *rootOptions) {
	o := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a document page to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			opts := render.DefaultOptions()
			opts.Width = root.cfg.Preview.Width
			opts.Margin = root.cfg.Preview.Margin
			opts.DPI = root.cfg.Preview.DPI
			if cmd.Flags().Changed("width") {
				opts.Width = o.Width
			}
			if cmd.Flags().Changed("margin") {
				opts.Margin = o.Margin
			}
			if cmd.Flags().Changed("dpi") {
				opts.DPI = o.DPI
			}

			out := o.Output
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := render.WritePNG(f, s.Document(), opts); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "PNG file to write (default <file>.png)")
	cmd.Flags().IntVar(&o.Width, "width", 0, "page width in pixels")
	cmd.Flags().IntVar(&o.Margin, "margin", 0, "page margin in pixels")
	cmd.Flags().Float64Var(&o.DPI, "dpi", 0, "font resolution")
	topLevel.AddCommand(cmd)
}
