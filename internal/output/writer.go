// Package output renders search tables for the HTTP API and the CLI.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/socialscout/internal/scraper"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats, for flag help.
var Formats = []Format{FormatJSON, FormatJSONL, FormatYAML}

// Envelope is the body returned for a successful search.
type Envelope struct {
	Status   string           `json:"status" yaml:"status"`
	Platform string           `json:"platform" yaml:"platform"`
	Data     []scraper.Record `json:"data" yaml:"data"`
}

// Success wraps a table in the success envelope. Data is never nil, so an
// empty search still encodes as [].
func Success(table scraper.Table) Envelope {
	data := table.Records
	if data == nil {
		data = []scraper.Record{}
	}
	return Envelope{Status: "success", Platform: table.Platform, Data: data}
}

// Writer serializes search tables.
type Writer interface {
	// Write outputs one table.
	Write(table scraper.Table) error

	// Close flushes anything buffered.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
