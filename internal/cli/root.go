package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/guyvdb/recstore/persist"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string   // output format, "json" | "yaml"
	KeyField string   // primary key field
	Entity   string   // entity name, defaults to the file's base name
	Indexes  []string // field[:one|many]
	RawKeys  bool     // treat key and value arguments as strings
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"json", "yaml"}

// NewRootCommand creates the root command for the recstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "recstore",
		Short:         "recstore - indexed record sets",
		Long:          "Inspect, query, validate and convert JSON/YAML record sets and their BoltDB snapshots.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), opts.Verbose))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "json", "output format (json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.KeyField, "key", "k", "id", "primary key field")
	cmd.PersistentFlags().StringVarP(&opts.Entity, "entity", "e", "", "entity name (default: file base name)")
	cmd.PersistentFlags().StringSliceVarP(&opts.Indexes, "index", "i", nil, "index to build, field[:one|many] (repeatable)")
	cmd.PersistentFlags().BoolVar(&opts.RawKeys, "raw", false, "do not parse key and value arguments as numbers or booleans")

	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// newLogger installs a tint handler, colored only when w is a terminal.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

func (o *RootOptions) outputFormat() persist.Format {
	f, err := persist.ParseFormat(o.Format)
	if err != nil {
		return persist.JSON
	}
	return f
}
