package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/socialscout/internal/browser"
	"github.com/jmylchreest/socialscout/internal/logger"
	"github.com/jmylchreest/socialscout/internal/scraper"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSearcher struct {
	table scraper.Table
	err   error
	panic any

	calls    int
	platform string
	keyword  string
}

func (f *fakeSearcher) Search(ctx context.Context, platformID, keyword string) (scraper.Table, error) {
	f.calls++
	f.platform = platformID
	f.keyword = keyword
	if f.panic != nil {
		panic(f.panic)
	}
	return f.table, f.err
}

func newTestServer(s Searcher) http.Handler {
	srv := NewHTTPServer(Config{
		Addr:      "127.0.0.1:0",
		Creator:   "Carlos Villena",
		Platforms: []string{"tiktok", "facebook"},
	}, s, logger.Discard())
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w, body
}

func TestMissingQuery(t *testing.T) {
	for _, target := range []string{"/tiktok", "/facebook", "/tiktok?q=", "/facebook?q=%20%20"} {
		t.Run(target, func(t *testing.T) {
			s := &fakeSearcher{}
			w, body := get(t, newTestServer(s), target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]any{
				"status":  "error",
				"mensaje": "Falta parámetro 'q'",
				"creador": "Carlos Villena",
			}, body)
			assert.Zero(t, s.calls)
		})
	}
}

func TestSearchSuccess(t *testing.T) {
	s := &fakeSearcher{table: scraper.Table{
		Platform: "TikTok",
		Keyword:  "gatos",
		Records: []scraper.Record{{
			Platform: "tiktok",
			Keyword:  "gatos",
			URL:      "https://www.tiktok.com/@gatuno/video/1",
			Username: "gatuno",
			Video:    true,
		}},
	}}

	w, body := get(t, newTestServer(s), "/tiktok?q=gatos+con+botas")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tiktok", s.platform)
	assert.Equal(t, "gatos con botas", s.keyword)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "TikTok", body["platform"])

	data, ok := body["data"].([]any)
	require.True(t, ok, "data should be an array: %v", body["data"])
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	assert.Equal(t, "gatos", row["palabra_clave"])
	assert.Equal(t, "gatuno", row["usuario_tiktok"])
	assert.Contains(t, row, "fecha_publicacion")
}

func TestSearchEmptyTable(t *testing.T) {
	s := &fakeSearcher{table: scraper.Table{Platform: "Facebook", Keyword: "zzzz"}}

	w, body := get(t, newTestServer(s), "/facebook?q=zzzz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "facebook", s.platform)
	assert.Equal(t, []any{}, body["data"])
}

func TestSearchFailure(t *testing.T) {
	s := &fakeSearcher{err: errors.New("chrome failed to start")}

	w, body := get(t, newTestServer(s), "/facebook?q=gatos")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{
		"error":  "chrome failed to start",
		"status": "failed",
	}, body)
}

func TestSearchEmptyKeywordFromService(t *testing.T) {
	s := &fakeSearcher{err: scraper.ErrEmptyKeyword}

	w, body := get(t, newTestServer(s), "/tiktok?q=gatos")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", body["status"])
}

func TestSearchPanic(t *testing.T) {
	s := &fakeSearcher{panic: "nil map"}

	w, body := get(t, newTestServer(s), "/tiktok?q=gatos")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "nil map", body["error"])
}

func TestHealth(t *testing.T) {
	w, body := get(t, newTestServer(&fakeSearcher{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}

type fixedStats browser.Stats

func (f fixedStats) Stats() browser.Stats { return browser.Stats(f) }

func TestHealth_PoolStats(t *testing.T) {
	srv := NewHTTPServer(Config{Pool: fixedStats{Size: 2, InUse: 1}}, &fakeSearcher{}, logger.Discard())

	w, body := get(t, srv.Handler(), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"size": float64(2), "in_use": float64(1)}, body["browsers"])
}

func TestVersion(t *testing.T) {
	w, body := get(t, newTestServer(&fakeSearcher{}), "/version")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "version")
}

func TestUnknownRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/instagram?q=gatos", nil)
	w := httptest.NewRecorder()
	newTestServer(&fakeSearcher{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
