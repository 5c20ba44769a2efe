package inspect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/shadowtree/pkg/commit"
	"github.com/vango-dev/shadowtree/pkg/component"
	"github.com/vango-dev/shadowtree/pkg/metrics"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

func newTestServer(t *testing.T) (*commit.Tree, *httptest.Server) {
	t.Helper()
	reg := prometheus.NewRegistry()
	tree := commit.New(1, commit.WithMetrics(metrics.New(metrics.WithRegistry(reg))))
	srv := NewServer(tree, WithGatherer(reg))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return tree, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServerBeforeFirstCommit(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, body = get(t, ts.URL+"/tree")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, `"code":"E502"`)
}

func TestServerTreeEndpoints(t *testing.T) {
	tree, ts := newTestServer(t)
	_, err := tree.Commit(context.Background(), sampleTree())
	require.NoError(t, err)

	resp, body := get(t, ts.URL+"/tree")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var gen GenerationSnapshot
	require.NoError(t, json.Unmarshal([]byte(body), &gen))
	assert.Equal(t, uint64(1), gen.Generation)
	assert.Equal(t, 4, gen.Nodes)
	assert.Equal(t, "Root", gen.Root.Component)

	resp, body = get(t, ts.URL+"/tree?format=text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body, "# generation 1 (4 nodes)\n<Root="))

	resp, body = get(t, ts.URL+"/tree/3?format=yaml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "component: View")

	resp, body = get(t, ts.URL+"/tree/2/ancestors")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refs []NodeRef
	require.NoError(t, json.Unmarshal([]byte(body), &refs))
	assert.Equal(t, []NodeRef{{Tag: 3, Component: "View"}, {Tag: 1, Component: "Root"}}, refs)

	resp, body = get(t, ts.URL+"/tree/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"code":"E501"`)

	resp, body = get(t, ts.URL+"/tree/99?format=text")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "E501: "))
	assert.True(t, strings.HasSuffix(body, " (tag 99)\n"))

	resp, _ = get(t, ts.URL+"/tree/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/tree?format=xml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerMetrics(t *testing.T) {
	tree, ts := newTestServer(t)
	_, err := tree.Commit(context.Background(), sampleTree())
	require.NoError(t, err)

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "shadowtree_generation 1")
	assert.Contains(t, body, `shadowtree_commits_total{status="success"} 1`)
}

func TestServerStream(t *testing.T) {
	tree, ts := newTestServer(t)
	b := component.NewBuilder(1)
	_, err := tree.Commit(context.Background(), b.Root())
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	initial := read()
	assert.Equal(t, MessageGeneration, initial.Type)
	require.NotNil(t, initial.Generation)
	assert.Equal(t, uint64(1), initial.Generation.Generation)

	_, err = tree.Update(context.Background(), func(prev *shadow.Node) *shadow.Node {
		next := prev.Clone(shadow.Fragment{})
		next.AppendChild(b.View())
		return next
	})
	require.NoError(t, err)

	update := read()
	require.NotNil(t, update.Generation)
	assert.Equal(t, uint64(2), update.Generation.Generation)
	assert.Len(t, update.Generation.Root.Children, 1)
}
