package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/patrol"
	adapter "github.com/aretw0/patrol/pkg/adapters/http"
	"github.com/aretw0/patrol/pkg/adapters/memory"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/aretw0/patrol/pkg/observability"
	"github.com/aretw0/patrol/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, err := patrol.New(patrol.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	mgr := session.NewManager(eng, memory.NewStore())

	srv := httptest.NewServer(adapter.NewHandler(eng, mgr, adapter.WithMetrics(reg)))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTrace_PlainText(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv, "/trace", "text/plain", sample)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body adapter.TraceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.OutcomeExit, body.Outcome)
	assert.Equal(t, 41, body.Visited)
	assert.Equal(t, domain.Pos(7, 9), body.Final.Position)
}

func TestSearch_JSON(t *testing.T) {
	srv := newServer(t)

	payload, err := json.Marshal(adapter.GridRequest{Grid: sample})
	require.NoError(t, err)
	resp := post(t, srv, "/search", "application/json", string(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res domain.SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 6, res.LoopCount())
	assert.Equal(t, 40, res.Candidates)
}

func TestTrace_MalformedIsBadRequest(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv, "/trace", "text/plain", "..\n.?\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "malformed input")
}

func TestAnalyze_ThenReports(t *testing.T) {
	srv := newServer(t)

	resp := post(t, srv, "/analyze", "text/plain", sample)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first adapter.AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	assert.False(t, first.Cached)
	assert.Equal(t, 6, first.Report.LoopCount())

	resp = post(t, srv, "/analyze", "text/plain", sample)
	var second adapter.AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Report.ID, second.Report.ID)

	list, err := http.Get(srv.URL + "/reports")
	require.NoError(t, err)
	defer list.Body.Close()
	var ids map[string][]string
	require.NoError(t, json.NewDecoder(list.Body).Decode(&ids))
	assert.Equal(t, []string{first.Report.ID}, ids["reports"])

	got, err := http.Get(srv.URL + "/reports/" + first.Report.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, http.StatusOK, got.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/reports/"+first.Report.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	missing, err := http.Get(srv.URL + "/reports/" + first.Report.ID)
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	post(t, srv, "/search", "text/plain", sample)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	text, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `patrol_candidates_total{outcome="loop"} 6`)
}
