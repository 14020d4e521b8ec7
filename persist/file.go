package persist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/guyvdb/recstore/store"
)

var _ Backend = (*FileBackend)(nil)

// FileBackend keeps one document per entity, <Dir>/<entity>.<format>.
type FileBackend struct {
	Dir    string
	Format Format
}

func NewFileBackend(dir string, format Format) *FileBackend {
	return &FileBackend{Dir: dir, Format: format}
}

func (fb *FileBackend) Path(entity string) string {
	return filepath.Join(fb.Dir, entity+fb.Format.Ext())
}

func (fb *FileBackend) Load(entity string) ([]store.Record, error) {
	return ReadFileAs(fb.Path(entity), fb.Format)
}

func (fb *FileBackend) Save(entity string, records []store.Record) error {
	if err := os.MkdirAll(fb.Dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", fb.Dir, err)
	}
	return WriteFileAs(fb.Path(entity), fb.Format, records)
}

// ReadFile decodes a file, picking the format from its extension.
func ReadFile(path string) ([]store.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return ReadFileAs(path, format)
}

func ReadFileAs(path string, format Format) ([]store.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	records, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("persist.ReadFile", "path", path, "format", string(format), "records", len(records))
	return records, nil
}

// WriteFile encodes records to a file, picking the format from its extension.
func WriteFile(path string, records []store.Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return WriteFileAs(path, format, records)
}

// WriteFileAs writes through a temporary file in the same directory so a
// failed write never leaves a truncated document behind.
func WriteFileAs(path string, format Format, records []store.Record) error {
	data, err := Encode(format, records)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}

	slog.Debug("persist.WriteFile", "path", path, "format", string(format), "records", len(records))
	return nil
}
