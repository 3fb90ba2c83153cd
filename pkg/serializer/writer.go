// Package serializer renders values as JSON, YAML, or a flattened
// FIELD/VALUE table, writing to stdout or a file chosen by the caller.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects the wire representation produced by a Writer.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// IsUnknown reports whether the format is outside the supported set.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

// SupportedFormats lists the accepted format names.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// FormatFromPath picks a format from a file extension. Anything that is
// not recognizably JSON serializes as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatYAML
}

// Serializer writes one value to its configured destination.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that hold a resource which must be
// released after use.
type Closer interface {
	Close() error
}

// Writer serializes values to an io.Writer in a fixed format. Unknown
// formats fall back to JSON rather than failing, so a writer is always
// usable once constructed.
type Writer struct {
	format Format
	out    io.Writer
	file   *os.File
	closed bool
}

func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter returns a writer targeting stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a writer for path, or a stdout writer when
// path is empty or the stdout marker. The file is created eagerly so an
// unusable path surfaces before any output is produced.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	w := NewWriter(format, f)
	w.file = f
	return w, nil
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finalize yaml output: %w", err)
		}
		return nil
	case FormatTable:
		return w.writeTable(v)
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		_, err = fmt.Fprintln(w.out, string(data))
		return err
	}
}

// Close releases the underlying file, if any. Safe to call repeatedly and
// on stdout-backed writers.
func (w *Writer) Close() error {
	if w.closed || w.file == nil {
		w.closed = true
		return nil
	}
	w.closed = true
	return w.file.Close()
}

type tableRow struct {
	key   string
	value string
}

// writeTable renders v as two tab-aligned columns, flattening nested
// structures into dotted and indexed keys.
func (w *Writer) writeTable(v any) error {
	rows := flatten("", reflect.ValueOf(v))
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	if len(rows) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.key, r.value)
	}
	return tw.Flush()
}

func flatten(prefix string, v reflect.Value) []tableRow {
	if !v.IsValid() {
		return []tableRow{{prefix, "<nil>"}}
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return []tableRow{{prefix, "<nil>"}}
		}
		return flatten(prefix, v.Elem())
	case reflect.Struct:
		t := v.Type()
		rows := make([]tableRow, 0, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			rows = append(rows, flatten(joinKey(prefix, t.Field(i).Name), v.Field(i))...)
		}
		return rows
	case reflect.Slice, reflect.Array:
		rows := make([]tableRow, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			rows = append(rows, flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i))...)
		}
		return rows
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		rows := make([]tableRow, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, flatten(joinKey(prefix, fmt.Sprint(k.Interface())), v.MapIndex(k))...)
		}
		return rows
	default:
		return []tableRow{{prefix, fmt.Sprint(v.Interface())}}
	}
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
