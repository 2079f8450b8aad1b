package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2reddit/pkg/scheduler"
	"github.com/umputun/feed2reddit/server/mocks"
)

func statusMock(st scheduler.Status) *mocks.StatusProviderMock {
	return &mocks.StatusProviderMock{StatusFunc: func() scheduler.Status { return st }}
}

func TestServer_New(t *testing.T) {
	srv := New(":8080", 30*time.Second, statusMock(scheduler.Status{}), "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	srv := New(fmt.Sprintf("127.0.0.1:%d", port), 5*time.Second, statusMock(scheduler.Status{}), "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for server to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "feed2reddit", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not stopped")
	}
}

func TestServer_statusHandler(t *testing.T) {
	last := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	provider := statusMock(scheduler.Status{Submit: true, Interval: 20 * time.Minute, BaseInterval: 10 * time.Minute,
		Cycles: 7, Posted: 3, Deleted: 1, LastCycle: last, LastError: "504 Gateway Timeout"})
	srv := New(":8080", 30*time.Second, provider, "1.2.3", false)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.2.3", status["version"])
	assert.Equal(t, true, status["submit"])
	assert.Equal(t, "20m0s", status["interval"])
	assert.Equal(t, "10m0s", status["base_interval"])
	assert.InDelta(t, 7, status["cycles"], 0.001)
	assert.InDelta(t, 3, status["posted"], 0.001)
	assert.InDelta(t, 1, status["deleted"], 0.001)
	assert.Equal(t, "2024-06-01T12:00:00Z", status["last_cycle"])
	assert.Equal(t, "504 Gateway Timeout", status["last_error"])
	assert.Len(t, provider.StatusCalls(), 1)
}

func TestServer_statusHandlerFresh(t *testing.T) {
	srv := New(":8080", 30*time.Second, statusMock(scheduler.Status{Interval: time.Minute, BaseInterval: time.Minute}), "1.0.0", false)

	req := httptest.NewRequest("GET", "/api/v1/status", http.NoBody)
	w := httptest.NewRecorder()
	srv.statusHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.NotContains(t, status, "last_cycle")
	assert.NotContains(t, status, "last_error")
	assert.Equal(t, "1m0s", status["interval"])
}

func TestRenderJSON(t *testing.T) {
	data := map[string]string{
		"message": "test",
		"status":  "ok",
	}

	req := httptest.NewRequest("GET", "/test", http.NoBody)
	w := httptest.NewRecorder()

	RenderJSON(w, req, http.StatusCreated, data)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, data, result)
}
