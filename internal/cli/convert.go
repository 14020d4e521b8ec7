package cli

import (
	"github.com/spf13/cobra"

	"github.com/guyvdb/recstore/persist"
	"github.com/guyvdb/recstore/recordstore"
)

// NewConvertCommand re-encodes a record set, e.g. YAML to JSON. Keys are
// checked on the way through.
func NewConvertCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a record set between JSON and YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if err := s.SaveFile(args[1]); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "%s: wrote %d records", args[1], s.Len())
		},
	}
}

// NewImportCommand snapshots a record set file into a BoltDB file.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> <db>",
		Short: "Snapshot a record set into a BoltDB file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			bb, err := persist.OpenBolt(args[1])
			if err != nil {
				return err
			}
			defer bb.Close()

			if err := s.Save(bb); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "%s: imported %d %s records", args[1], s.Len(), s.Entity())
		},
	}
}

// NewExportCommand writes an entity's BoltDB snapshot out as JSON or YAML.
// The entity is taken from --entity, or from the output file's base name.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <db> <out>",
		Short: "Write a BoltDB snapshot out as a record set file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.storeConfig(args[1])
			if err != nil {
				return err
			}
			bb, err := persist.OpenBolt(args[0])
			if err != nil {
				return err
			}
			defer bb.Close()

			s, err := recordstore.Load(cfg, bb)
			if err != nil {
				return err
			}
			if err := s.SaveFile(args[1]); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "%s: exported %d %s records", args[1], s.Len(), s.Entity())
		},
	}
}
