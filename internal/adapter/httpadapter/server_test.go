package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/fwi-merge-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/fwi-merge-service/internal/domain"
	"github.com/couchcryptid/fwi-merge-service/internal/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, store *merge.Store) *httpadapter.Server {
	if store == nil {
		store = merge.NewStore(merge.PolicyArrival, 10)
	}
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, store, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("not ready yet"), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRecordEndpoint(t *testing.T) {
	store := merge.NewStore(merge.PolicyArrival, 10)
	ts := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	var d domain.DailyIndexRecord
	d.SetDMC(40)
	d.SetDC(410)
	_, err := store.Apply(domain.Envelope{Kind: domain.KindDaily, Station: "CYXS", Time: ts, Source: domain.SourceComputed, Record: d})
	require.NoError(t, err)

	srv := newTestServer(nil, store)

	cases := []struct {
		name string
		path string
		code int
	}{
		{"found", "/v1/records/daily/CYXS?time=2024-07-15T00:00:00Z", http.StatusOK},
		{"found with offset", "/v1/records/daily/CYXS?time=2024-07-14T18:00:00-06:00", http.StatusOK},
		{"other kind", "/v1/records/hourly/CYXS?time=2024-07-15T00:00:00Z", http.StatusNotFound},
		{"unknown kind", "/v1/records/monthly/CYXS?time=2024-07-15T00:00:00Z", http.StatusBadRequest},
		{"missing time", "/v1/records/daily/CYXS", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, cases[0].path, nil))
	var body struct {
		Station   string             `json:"station"`
		Record    map[string]float64 `json:"record"`
		Sources   []string           `json:"sources"`
		Derivable []string           `json:"derivable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CYXS", body.Station)
	assert.Equal(t, map[string]float64{"dmc": 40, "dc": 410}, body.Record)
	assert.Equal(t, []string{"computed"}, body.Sources)
	assert.Equal(t, []string{"bui"}, body.Derivable)
}

func TestAllReady(t *testing.T) {
	ok := &mockReadiness{}
	failing := &mockReadiness{err: fmt.Errorf("influx down")}

	assert.NoError(t, httpadapter.AllReady(ok, ok).CheckReadiness(context.Background()))
	assert.EqualError(t, httpadapter.AllReady(ok, failing).CheckReadiness(context.Background()), "influx down")
}
