package cli

import (
	"fmt"
	"io"

	"github.com/guyvdb/recstore/persist"
	"github.com/guyvdb/recstore/store"
)

func writeRecords(w io.Writer, format persist.Format, records []store.Record) error {
	data, err := persist.Encode(format, records)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeLine(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
