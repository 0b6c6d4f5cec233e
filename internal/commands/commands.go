package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wordimp/internal/app"
	"wordimp/internal/config"
	"wordimp/internal/recent"
	"wordimp/internal/styling"
	_ "wordimp/pkg/wpdoc/docx"
)

// rootOptions holds the persistent flags and what PersistentPreRunE builds
// from them.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	NoRecent   bool

	cfg    *config.Config
	logger *slog.Logger
}

func New() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wordimp",
		Short:         "Format, search and convert word-processor documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "",
		"config file (default $WORDIMP_CONFIG or ~/.config/wordimp/config.toml)")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"override the configured log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&o.NoRecent, "no-recent", false,
		"do not record opened and saved files in the recent list")

	addCommands(cmd, o)
	return cmd
}

func addCommands(topLevel *cobra.Command, o *rootOptions) {
	addStats(topLevel, o)
	addFind(topLevel, o)
	addReplace(topLevel, o)
	addConvert(topLevel, o)
	addStyles(topLevel, o)
	addFormat(topLevel, o)
	addInsert(topLevel, o)
	addPreview(topLevel, o)
	addRecent(topLevel, o)
	addConfig(topLevel, o)
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	level := cfg.Level()
	if o.LogLevel != "" {
		if level, err = config.ParseLevel(o.LogLevel); err != nil {
			return err
		}
	}
	o.cfg = cfg
	o.logger = app.NewLogger(cmd.ErrOrStderr(), level)
	return nil
}

func (o *rootOptions) recentStore() *recent.Store {
	if o.NoRecent {
		return nil
	}
	return o.recentList()
}

func (o *rootOptions) session() *app.Session {
	return app.New(app.Options{
		Logger:     o.logger,
		Formatting: o.cfg.FormattingState(),
		Styling: []styling.Option{
			styling.WithIndentWidth(o.cfg.Styling.IndentWidth),
			styling.WithBullet(o.cfg.Styling.Bullet),
		},
		Recent: o.recentStore(),
	})
}

// open returns a session holding path.
func (o *rootOptions) open(path string) (*app.Session, error) {
	s := o.session()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// save writes s to output, or back to its own path when output is empty.
func save(cmd *cobra.Command, s *app.Session, output string) error {
	report, err := s.SaveAs(output)
	if err != nil {
		return err
	}
	if len(report.Dropped) > 0 {
		_, _ = warn.Fprintln(cmd.OutOrStdout(), s.Status())
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.Status())
	return nil
}
