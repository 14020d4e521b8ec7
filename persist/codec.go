// Package persist is the load/serialize boundary for record sets. Nothing in
// here touches an index; it only turns documents into ordered record lists
// and back.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guyvdb/recstore/fault"
	"github.com/guyvdb/recstore/store"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("format %q: %w", s, fault.ErrUnsupportedFormat)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s: no extension: %w", path, fault.ErrUnsupportedFormat)
	}
	return ParseFormat(ext)
}

// Ext is the file extension written for the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// Decode parses a document holding a top-level list of objects. Integral JSON
// numbers decode as int64, other numbers as float64. An empty document yields
// an empty list.
func Decode(format Format, data []byte) ([]store.Record, error) {
	var raw []any
	switch format {
	case JSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return []store.Record{}, nil
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("json: %w: %w", fault.ErrMalformedDocument, err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("yaml: %w: %w", fault.ErrMalformedDocument, err)
		}
	default:
		return nil, fmt.Errorf("decode %q: %w", format, fault.ErrUnsupportedFormat)
	}

	records := make([]store.Record, 0, len(raw))
	for i, item := range raw {
		m, ok := normalize(item).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: entry %d is %T, not an object: %w", format, i, item, fault.ErrMalformedDocument)
		}
		records = append(records, store.Record(m))
	}
	return records, nil
}

// Encode writes records as a JSON array indented by two spaces, or as a YAML
// sequence. Both end with a newline.
func Encode(format Format, records []store.Record) ([]byte, error) {
	if records == nil {
		records = []store.Record{}
	}
	switch format {
	case JSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json: %w: %w", fault.ErrMarshalFailed, err)
		}
		return append(data, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("yaml: %w: %w", fault.ErrMarshalFailed, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml: %w: %w", fault.ErrMarshalFailed, err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("encode %q: %w", format, fault.ErrUnsupportedFormat)
}

// normalize turns decoder output into plain record values: json.Number
// becomes int64 or float64 and YAML maps with non-string keys get string keys.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	}
	return v
}
