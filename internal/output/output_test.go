package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/socialscout/internal/scraper"
)

func testTable() scraper.Table {
	return scraper.Table{
		Platform: "TikTok",
		Keyword:  "gatos",
		Records: []scraper.Record{
			{Platform: "tiktok", Keyword: "gatos", URL: "https://www.tiktok.com/@a/video/1", Username: "a", Video: true},
			{Platform: "tiktok", Keyword: "gatos", URL: "https://www.tiktok.com/@b/video/2", Username: "b", Likes: "12K", Video: true},
		},
	}
}

// --- NewWriter Factory Tests ---

func TestNewWriter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if _, ok := w.(*JSONWriter); !ok {
		t.Errorf("expected *JSONWriter, got %T", w)
	}
}

func TestNewWriter_JSONL(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSONL)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if _, ok := w.(*JSONLWriter); !ok {
		t.Errorf("expected *JSONLWriter, got %T", w)
	}
}

func TestNewWriter_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatYAML)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if _, ok := w.(*YAMLWriter); !ok {
		t.Errorf("expected *YAMLWriter, got %T", w)
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	_, err := NewWriter(buf, Format("csv"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}

	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestNewWriter_WithOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON, WithPretty(false))
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Write(testTable()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact output should be one line, got %q", buf.String())
	}
}

// --- Envelope Tests ---

func TestSuccess_EmptyTableHasEmptyData(t *testing.T) {
	env := Success(scraper.Table{Platform: "Facebook"})

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"status":"success","platform":"Facebook","data":[]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_Write(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(testTable()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got struct {
		Status   string           `json:"status"`
		Platform string           `json:"platform"`
		Data     []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if got.Status != "success" || got.Platform != "TikTok" {
		t.Errorf("envelope = %+v", got)
	}
	if len(got.Data) != 2 {
		t.Fatalf("got %d rows, want 2", len(got.Data))
	}
	if got.Data[1]["likes"] != "12K" || got.Data[0]["usuario_tiktok"] != "a" {
		t.Errorf("rows = %v", got.Data)
	}
}

func TestJSONWriter_PrettyPrint(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "\t")

	if err := w.Write(testTable()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n\t\"status\"") {
		t.Errorf("expected tab indentation, got %q", buf.String())
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_Write_SeparateLines(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.Write(testTable()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		var row map[string]any
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			t.Errorf("line %d is not JSON: %v", i, err)
		}
		if row["red_social"] != "tiktok" {
			t.Errorf("line %d red_social = %v", i, row["red_social"])
		}
	}
}

func TestJSONLWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.Write(scraper.Table{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter_Write(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	if err := w.Write(testTable()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var got struct {
		Status   string              `yaml:"status"`
		Platform string              `yaml:"platform"`
		Data     []map[string]string `yaml:"data"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if got.Status != "success" || len(got.Data) != 2 {
		t.Errorf("got %+v", got)
	}
	if got.Data[0]["url"] != "https://www.tiktok.com/@a/video/1" {
		t.Errorf("row 0 = %v", got.Data[0])
	}
}

func TestYAMLWriter_MultipleTables(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	for _, platform := range []string{"TikTok", "Facebook"} {
		if err := w.Write(scraper.Table{Platform: platform}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !strings.Contains(buf.String(), "---") {
		t.Errorf("expected a document separator, got %q", buf.String())
	}
}
