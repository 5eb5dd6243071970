package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/socialscout/internal/scraper"
)

// YAMLWriter writes each table's envelope as a YAML document.
type YAMLWriter struct {
	w   *bufio.Writer
	enc *yaml.Encoder
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	bw := bufio.NewWriter(w)
	enc := yaml.NewEncoder(bw)
	enc.SetIndent(2)
	return &YAMLWriter{w: bw, enc: enc}
}

// Write encodes one document. Successive tables are separated by "---".
func (w *YAMLWriter) Write(table scraper.Table) error {
	if err := w.enc.Encode(Success(table)); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close finishes the YAML stream and flushes the writer.
func (w *YAMLWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
