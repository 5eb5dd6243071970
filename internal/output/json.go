package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/socialscout/internal/scraper"
)

// JSONWriter writes each table as a success envelope.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write encodes the table's envelope followed by a newline.
func (w *JSONWriter) Write(table scraper.Table) error {
	var (
		output []byte
		err    error
	)
	if w.pretty {
		output, err = json.MarshalIndent(Success(table), "", w.indent)
	} else {
		output, err = json.Marshal(Success(table))
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.w.Flush()
}

// JSONLWriter writes one record per line, without the envelope.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes every record of the table as a JSON line.
func (w *JSONLWriter) Write(table scraper.Table) error {
	enc := json.NewEncoder(w.w)
	for _, r := range table.Records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
