package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func getJSON(t *testing.T, srv *httptest.Server, path string) (int, map[string]string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(newMux(false, nil))
	defer srv.Close()

	code, body := getJSON(t, srv, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestReady(t *testing.T) {
	srv := httptest.NewServer(newMux(false, fakePinger{}))
	defer srv.Close()

	code, body := getJSON(t, srv, "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyDBDown(t *testing.T) {
	srv := httptest.NewServer(newMux(false, fakePinger{err: errors.New("down")}))
	defer srv.Close()

	code, body := getJSON(t, srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "db", body["reason"])
}

func TestMetricsExposure(t *testing.T) {
	withMetrics := httptest.NewServer(newMux(true, nil))
	defer withMetrics.Close()
	resp, err := withMetrics.Client().Get(withMetrics.URL + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	without := httptest.NewServer(newMux(false, nil))
	defer without.Close()
	resp, err = without.Client().Get(without.URL + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
