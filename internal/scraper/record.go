package scraper

import (
	"encoding/json"
)

// Record is one search result. Facebook records carry only the base fields;
// TikTok records (Video set) also carry the video metadata columns, which
// are always emitted even when empty so every row has the same shape.
type Record struct {
	Platform    string
	Keyword     string
	URL         string
	Username    string
	DisplayName string
	Title       string
	Caption     string
	Likes       string
	PublishedAt string
	Video       bool
}

type baseRow struct {
	Platform string `json:"red_social" yaml:"red_social"`
	Keyword  string `json:"palabra_clave" yaml:"palabra_clave"`
	URL      string `json:"url" yaml:"url"`
}

type videoRow struct {
	baseRow     `yaml:",inline"`
	Username    string `json:"usuario_tiktok" yaml:"usuario_tiktok"`
	DisplayName string `json:"nombre_real" yaml:"nombre_real"`
	Title       string `json:"titulo" yaml:"titulo"`
	Caption     string `json:"descripcion" yaml:"descripcion"`
	Likes       string `json:"likes" yaml:"likes"`
	PublishedAt string `json:"fecha_publicacion" yaml:"fecha_publicacion"`
}

func (r Record) row() any {
	base := baseRow{Platform: r.Platform, Keyword: r.Keyword, URL: r.URL}
	if !r.Video {
		return base
	}
	return videoRow{
		baseRow:     base,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Title:       r.Title,
		Caption:     r.Caption,
		Likes:       r.Likes,
		PublishedAt: r.PublishedAt,
	}
}

// MarshalJSON emits the flat column mapping for the record's platform.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.row())
}

// MarshalYAML emits the same columns as MarshalJSON.
func (r Record) MarshalYAML() (any, error) {
	return r.row(), nil
}

// Table is the de-duplicated result of one search.
type Table struct {
	Platform string
	Keyword  string
	Records  []Record
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// Dedupe drops repeated items, keeping the first occurrence of each.
func Dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
