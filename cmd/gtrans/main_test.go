package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/gtrans"
	"github.com/ZaguanLabs/gtrans/cache"
	"github.com/ZaguanLabs/gtrans/gtranstest"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWords = map[string]string{
	"Bonjour le monde": "Hello world",
	"Bonjour":          "Hello",
}

func newTestServer(t *testing.T) *gtranstest.Server {
	t.Helper()
	srv := gtranstest.NewServer(gtranstest.Dictionary(testWords, "fr"))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "gtrans "+gtrans.Version) {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_Translate(t *testing.T) {
	srv := newTestServer(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "translate", "--dest", "english", "Bonjour", "le", "monde"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "Hello world\n", stdout.String())

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bonjour le monde", reqs[0].Text)
	assert.Equal(t, "auto", reqs[0].Src)
	assert.Equal(t, "en", reqs[0].Dest)
}

func TestRun_TranslateJSON(t *testing.T) {
	srv := newTestServer(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "--json", "translate", "Bonjour le monde"}, &stdout, &stderr)
	require.NoError(t, err)

	var out TranslateOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))

	assert.Equal(t, "fr", out.Src)
	assert.Equal(t, "en", out.Dest)
	assert.Equal(t, "Bonjour le monde", out.Origin)
	assert.Equal(t, "Hello world", out.Text)
	assert.Len(t, out.Parts, 2)
}

func TestRun_TranslateInvalidLanguage(t *testing.T) {
	srv := newTestServer(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "translate", "--dest", "klingon", "Bonjour"}, &stdout, &stderr)

	var langErr *gtrans.InvalidLanguageError
	require.True(t, errors.As(err, &langErr), "got %v", err)
	assert.Equal(t, gtrans.RoleDestination, langErr.Role)
	assert.Empty(t, srv.Requests())
}

func TestRun_Detect(t *testing.T) {
	srv := newTestServer(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "detect", "Bonjour"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "fr\tfrench\n", stdout.String())
}

func TestRun_DetectJSON(t *testing.T) {
	srv := newTestServer(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "--json", "detect", "Bonjour"}, &stdout, &stderr)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "fr", out["lang"])
	assert.Equal(t, true, out["known"])
}

func TestRun_HTML(t *testing.T) {
	srv := newTestServer(t)

	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "page.html")
	outputFile := filepath.Join(tmpDir, "page.en.html")
	require.NoError(t, os.WriteFile(inputFile, []byte(`<p>Bonjour</p><code>Bonjour</code>`), 0o644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "html", "--dest", "en", "-o", outputFile, inputFile}, &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	assert.Contains(t, string(data), "<p>Hello</p>")
	assert.Contains(t, string(data), "<code>Bonjour</code>")
	assert.Contains(t, string(data), `lang="en"`)
	assert.Contains(t, stderr.String(), "Texts translated: 1")
}

func TestRun_HTMLJSON(t *testing.T) {
	srv := newTestServer(t)

	inputFile := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(inputFile, []byte(`<h1>Bonjour le monde</h1>`), 0o644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"--service-url", srv.URL, "--json", "html", "-q", inputFile}, &stdout, &stderr)
	require.NoError(t, err)

	var out HTMLOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, 1, out.Nodes)
	assert.Equal(t, "fr", out.Src)
	assert.Contains(t, out.Content, "Hello world")
	assert.Empty(t, stderr.String())
}

func TestRun_Languages(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"languages"}, &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, len(gtrans.Languages))
	assert.Contains(t, stdout.String(), "fr     french\n")
}

func TestRun_CacheNeedsPersistentBackend(t *testing.T) {
	for _, backend := range []string{"memory", "none"} {
		t.Run(backend, func(t *testing.T) {
			t.Setenv("GTRANS_CACHE_BACKEND", backend)

			in := filepath.Join(t.TempDir(), "in.json")
			require.NoError(t, os.WriteFile(in, []byte(`{"version":"1.0","entries":[{"key":"k","value":"v"}]}`), 0o644))

			var stdout, stderr bytes.Buffer
			err := run([]string{"cache", "import", in}, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "needs a persistent backend")
			assert.Empty(t, stdout.String())

			err = run([]string{"cache", "export", filepath.Join(t.TempDir(), "out.json")}, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "needs a persistent backend")
		})
	}
}

func TestCacheImportExport_Redis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := cache.NewRedisCacheFromClient(db, time.Hour, "test:")
	ctx := context.Background()
	tmpDir := t.TempDir()

	in := filepath.Join(tmpDir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"version":"1.0","entries":[{"key":"k","value":"v"}]}`), 0o644))

	mock.ExpectSet("test:k", "v", time.Hour).SetVal("OK")

	var stdout bytes.Buffer
	require.NoError(t, importCache(ctx, c, in, &stdout))
	assert.Contains(t, stdout.String(), "Imported 1 entries (0 failed)")

	mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:k"}, 0)
	mock.ExpectGet("test:k").SetVal("v")

	out := filepath.Join(tmpDir, "out.json")
	var stderr bytes.Buffer
	require.NoError(t, exportCache(ctx, c, out, &stderr))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var exported cache.ExportFormat
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, []cache.ExportEntry{{Key: "k", Value: "v"}}, exported.Entries)
	assert.Equal(t, "gtrans/"+gtrans.Version, exported.Metadata["tool"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtrans.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", path, "languages"}, &stdout, &stderr)
	require.NoError(t, err, "languages does not load config")

	err = run([]string{"--config", path, "translate", "Bonjour"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"frobnicate"}, &stdout, &stderr)
	assert.Error(t, err)
}
