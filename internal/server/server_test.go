package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/preset"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/render"
	"github.com/kshypjn/CG-StadiaGenerator/pkg/validation"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.ProjectPath == "" {
		opts.ProjectPath = t.TempDir()
	}
	opts.Logger = quietLogger()
	s, err := New(opts)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSceneFromDefaults(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/scene", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	graph := decode[struct {
		Metadata struct {
			EntityCount int    `json:"entity_count"`
			RoofType    string `json:"roof_type"`
		} `json:"metadata"`
		Entities []map[string]any `json:"entities"`
	}](t, resp)
	assert.NotEmpty(t, graph.Entities)
	assert.Equal(t, len(graph.Entities), graph.Metadata.EntityCount)
}

func TestUpdateParams(t *testing.T) {
	s, ts := newTestServer(t, Options{})

	resp := do(t, http.MethodPut, ts.URL+"/api/params",
		`{"stands":{"global":{"rows":12}},"roof":{"individual":{"coverage":10}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[validation.Report](t, resp)
	assert.True(t, report.Valid)
	assert.Equal(t, 12, s.Spec().Stands.Global.Rows)
	assert.Equal(t, 10.0, s.Spec().Roof.Individual.Coverage)
	// Untouched keys keep their values.
	assert.Equal(t, 0.8, s.Spec().Stands.Global.StepDepth)
}

func TestRowChangeExceedingCoverageRejected(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	before := s.builder.Current().Seq

	// Five rows leave a 6 m deep stand under a 15 m roof.
	resp := do(t, http.MethodPut, ts.URL+"/api/params", `{"stands":{"global":{"rows":5}}}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	report := decode[validation.Report](t, resp)
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Find("roof.individual.coverage"))

	assert.Equal(t, before, s.builder.Current().Seq)
	assert.Equal(t, 20, s.Spec().Stands.Global.Rows)

	resp = do(t, http.MethodGet, ts.URL+"/api/validation?path=roof.individual", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	filtered := decode[struct {
		Path    string              `json:"path"`
		Valid   bool                `json:"valid"`
		Results []validation.Result `json:"results"`
	}](t, resp)
	assert.Equal(t, "roof.individual", filtered.Path)
	assert.False(t, filtered.Valid)
	require.NotEmpty(t, filtered.Results)
	for _, res := range filtered.Results {
		assert.True(t, strings.HasPrefix(res.SpecPath, "roof.individual."), res.SpecPath)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/validation?path=pitch", "")
	assert.Empty(t, decode[struct {
		Results []validation.Result `json:"results"`
	}](t, resp).Results)
}

func TestConcurrentParamUpdatesAllLand(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	bodies := []string{
		`{"pitch":{"length":105}}`,
		`{"floodlights":{"tower_height":50}}`,
		`{"stands":{"individual":{"east":{"offset":6}}}}`,
		`{"stands":{"individual":{"west":{"offset":7}}}}`,
		`{"stands":{"individual":{"north":{"offset":8}}}}`,
		`{"stands":{"individual":{"south":{"offset":9}}}}`,
	}

	var wg sync.WaitGroup
	codes := make([]int, len(bodies))
	for i, body := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/params", strings.NewReader(body))
			if err != nil {
				return
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, bodies[i])
	}
	sp := s.Spec()
	assert.Equal(t, 105.0, sp.Pitch.Length)
	assert.Equal(t, 50.0, sp.Floodlights.TowerHeight)
	require.NotNil(t, sp.Stands.Individual.East.Offset)
	require.NotNil(t, sp.Stands.Individual.West.Offset)
	require.NotNil(t, sp.Stands.Individual.North.Offset)
	require.NotNil(t, sp.Stands.Individual.South.Offset)
	assert.Equal(t, 6.0, *sp.Stands.Individual.East.Offset)
	assert.Equal(t, 7.0, *sp.Stands.Individual.West.Offset)
	assert.Equal(t, 8.0, *sp.Stands.Individual.North.Offset)
	assert.Equal(t, 9.0, *sp.Stands.Individual.South.Offset)
	assert.Equal(t, 1+len(bodies), s.builder.Current().Seq)
}

func TestRejectedParamsKeepBuild(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	before := s.builder.Current().Seq

	resp := do(t, http.MethodPut, ts.URL+"/api/params", `{"pitch":{"length":5}}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	report := decode[validation.Report](t, resp)
	assert.False(t, report.Valid)

	assert.Equal(t, before, s.builder.Current().Seq)
	assert.Equal(t, 100.6, s.Spec().Pitch.Length)

	resp = do(t, http.MethodGet, ts.URL+"/api/scene", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/validation", "")
	assert.False(t, decode[validation.Report](t, resp).Valid)
}

func TestMalformedParams(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp := do(t, http.MethodPut, ts.URL+"/api/params", `{"pitch":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlanEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/plan", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[map[string]any](t, resp)
	assert.Contains(t, p, "stands")
	assert.Contains(t, p, "field")
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Metrics struct {
			Stands []map[string]any `json:"stands"`
			Lights int              `json:"lights"`
		} `json:"metrics"`
	}](t, resp)
	assert.Len(t, body.Metrics.Stands, 4)
	assert.Equal(t, 16, body.Metrics.Lights)
}

func TestStatsReportDevice(t *testing.T) {
	dev := render.NewMemory()
	_, ts := newTestServer(t, Options{Device: dev})

	resp := do(t, http.MethodGet, ts.URL+"/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[struct {
		Seq    int          `json:"seq"`
		Device render.Stats `json:"device"`
	}](t, resp)
	assert.Equal(t, 1, stats.Seq)
	assert.Equal(t, dev.Stats().LiveTotal, stats.Device.LiveTotal)
	assert.Positive(t, stats.Device.LiveTotal)
}

func TestSaveWritesProjectFile(t *testing.T) {
	dir := t.TempDir()
	_, ts := newTestServer(t, Options{ProjectPath: dir})

	do(t, http.MethodPut, ts.URL+"/api/params", `{"pitch":{"length":110}}`)
	resp := do(t, http.MethodPost, ts.URL+"/api/save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(filepath.Join(dir, "stadium.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "length: 110")
}

func TestPresetsDisabled(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/presets", "")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestPresets(t *testing.T) {
	store, err := preset.Open(filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	defer store.Close()
	s, ts := newTestServer(t, Options{Presets: store})

	do(t, http.MethodPut, ts.URL+"/api/params", `{"roof":{"type":"none"}}`)
	resp := do(t, http.MethodPost, ts.URL+"/api/presets/open-air", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	do(t, http.MethodPut, ts.URL+"/api/params", `{"roof":{"type":"overall"}}`)
	assert.EqualValues(t, "overall", s.Spec().Roof.Type)

	resp = do(t, http.MethodPost, ts.URL+"/api/presets/open-air/apply", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, "none", s.Spec().Roof.Type)

	resp = do(t, http.MethodGet, ts.URL+"/api/presets", "")
	list := decode[[]preset.Summary](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "open-air", list[0].Name)

	resp = do(t, http.MethodDelete, ts.URL+"/api/presets/open-air", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodPost, ts.URL+"/api/presets/open-air/apply", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWebsocketEvents(t *testing.T) {
	s, ts := newTestServer(t, Options{})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	hello := readEvent(t, conn)
	assert.Equal(t, EventHello, hello.Type)
	assert.Equal(t, 1, hello.Seq)
	require.Eventually(t, func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	do(t, http.MethodPut, ts.URL+"/api/params", `{"stands":{"global":{"rows":15}},"roof":{"individual":{"auto_coverage":true}}}`)
	ev := readEvent(t, conn)
	assert.Equal(t, EventRebuilt, ev.Type)
	assert.Equal(t, 2, ev.Seq)

	do(t, http.MethodPut, ts.URL+"/api/params", `{"pitch":{"width":1}}`)
	ev = readEvent(t, conn)
	assert.Equal(t, EventRejected, ev.Type)
	require.NotNil(t, ev.Report)
	assert.False(t, ev.Report.Valid)
}

func TestWatchReloadsProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stadium.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pitch:\n  length: 100\n"), 0o644))
	s, _ := newTestServer(t, Options{ProjectPath: dir})
	require.Equal(t, 100.0, s.Spec().Pitch.Length)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Rewrite until the watcher is registered and picks the change up.
	require.Eventually(t, func() bool {
		os.WriteFile(path, []byte("pitch:\n  length: 115\n"), 0o644)
		return s.Spec().Pitch.Length == 115
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
