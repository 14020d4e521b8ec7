package cli

import (
	"github.com/spf13/cobra"

	"github.com/guyvdb/recstore/recordstore"
	"github.com/guyvdb/recstore/store"
)

// NewGetCommand prints the record with a primary key.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <key>",
		Short: "Print the record with the given primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			r, err := s.Get(opts.parseArg(args[1]))
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), opts.outputFormat(), []store.Record{r})
		},
	}
}

// NewQueryCommand prints the records whose field holds a value, going through
// the derived getBy<Field> accessor.
func NewQueryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <file> <field> <value>",
		Short: "Print the records whose field equals value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := args[1]
			s, err := opts.load(args[0], field)
			if err != nil {
				return err
			}
			records, err := s.Call(recordstore.AccessorName(field), opts.parseArg(args[2]))
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), opts.outputFormat(), records)
		},
	}
}

// NewListCommand prints every record in master sequence order.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "Print every record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), opts.outputFormat(), s.List())
		},
	}
}

// NewValidateCommand loads each file, which checks key presence and
// uniqueness, then validates its OneToOne indexes.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check record sets for missing or duplicate keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				s, err := opts.load(path)
				if err != nil {
					return err
				}
				if err := s.Validate(); err != nil {
					return err
				}
				if err := writeLine(cmd.OutOrStdout(), "%s: %d records ok", path, s.Len()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (o *RootOptions) load(path string, extra ...string) (*recordstore.Store, error) {
	cfg, err := o.storeConfig(path, extra...)
	if err != nil {
		return nil, err
	}
	return recordstore.LoadFile(cfg, path)
}
