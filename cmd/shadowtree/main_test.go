package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/shadowtree/internal/config"
	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/inspect"
)

const screen = `
root:
  children:
    - component: View
      props:
        testID: header
      children:
        - component: Text
          text: Welcome
    - component: Image
      source: logo.png
`

func writeFixtures(t *testing.T, cfg *config.Config) (cfgPath, screenPath string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, cfg.SaveTo(cfgPath))
	screenPath = filepath.Join(dir, "screen.yaml")
	require.NoError(t, os.WriteFile(screenPath, []byte(screen), 0o644))
	return cfgPath, screenPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpText(t *testing.T) {
	cfgPath, screenPath := writeFixtures(t, config.New())

	out, err := run(t, "dump", screenPath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "<Root=r1/sealed tag=1>")
	assert.Contains(t, out, "</Root>")
	assert.Contains(t, out, "testID=header")
}

func TestDumpJSONWithRootTag(t *testing.T) {
	cfgPath, screenPath := writeFixtures(t, config.New())

	out, err := run(t, "dump", screenPath, "--config", cfgPath, "--format", "json", "--root-tag", "11")
	require.NoError(t, err)

	var snap inspect.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, int32(11), snap.Tag)
	assert.Equal(t, "Root", snap.Component)
	assert.True(t, snap.Sealed)
	require.Len(t, snap.Children, 2)
	assert.Equal(t, "View", snap.Children[0].Component)
	require.Len(t, snap.Children[0].Children, 1)
	assert.Equal(t, "Text", snap.Children[0].Children[0].Component)
}

func TestDumpErrors(t *testing.T) {
	cfgPath, screenPath := writeFixtures(t, config.New())

	_, err := run(t, "dump", screenPath, "--config", cfgPath, "--format", "xml")
	require.Error(t, err)

	_, err = run(t, "dump", filepath.Join(t.TempDir(), "missing.yaml"), "--config", cfgPath)
	require.Error(t, err)

	_, err = run(t, "dump")
	require.Error(t, err)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfg := config.New()
	cfg.Tree.RootTag = -1
	cfgPath, screenPath := writeFixtures(t, cfg)

	_, err := run(t, "dump", screenPath, "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "OS/Arch:")
}

func TestServiceCommitsArchivesAndServes(t *testing.T) {
	cfg := config.New()
	cfg.Archive.Dir = t.TempDir()
	_, screenPath := writeFixtures(t, cfg)

	svc, err := newService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	gen, err := svc.commitFile(context.Background(), screenPath)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen.Number)
	assert.Equal(t, 4, gen.Len())

	srv := httptest.NewServer(svc.server.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/tree")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snap inspect.GenerationSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(1), snap.Generation)

	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(metricsResp.Body)
	metricsResp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "shadowtree_commits_total")

	svc.Close()

	entries, err := os.ReadDir(filepath.Join(cfg.Archive.Dir, "root-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gen-00000001.json", entries[0].Name())
}
