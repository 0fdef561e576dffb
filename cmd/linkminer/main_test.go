package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	main "github.com/fwojciec/linkminer/cmd/linkminer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSite serves a small linked site:
//
//	/ -> /a, /b, external
//	/a -> /a/deep, /
//	/b -> /missing
func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/":       `<a href="/a">A</a><a href="b">B</a><a href="https://elsewhere.org/">out</a>`,
		"/a":      `<a href="/a/deep#top">deep</a><a href="/">home</a>`,
		"/b":      `<a href="/missing">gone</a>`,
		"/a/deep": `<p>leaf</p>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprintf(w, "<html><body>%s</body></html>", body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "linkminer")
	assert.Contains(t, stdout.String(), "--max-depth")
	assert.Contains(t, stdout.String(), "--mode")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"relative url":   {"/docs"},
		"unknown order":  {"https://example.com", "--order", "random"},
		"unknown mode":   {"https://example.com", "--mode", "parallel"},
		"unknown format": {"https://example.com", "--format", "csv"},
		"negative depth": {"https://example.com", "--max-depth=-1"},
		"zero timeout":   {"https://example.com", "--timeout", "0s"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			err := main.NewMain().Run(context.Background(), append(args, "--config", writeConfig(t, "")), &stdout, &stderr)

			assert.Error(t, err)
		})
	}
}

func TestMain_Run_CrawlsSite(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"sequential", "concurrent", "async"} {
		for _, order := range []string{"dfs", "bfs"} {
			t.Run(order+"/"+mode, func(t *testing.T) {
				t.Parallel()

				srv := newSite(t)
				var stdout, stderr bytes.Buffer

				err := main.NewMain().Run(context.Background(), []string{
					srv.URL, "--order", order, "--mode", mode, "--concurrency", "2",
					"--config", writeConfig(t, ""),
				}, &stdout, &stderr)

				require.NoError(t, err)
				assert.Equal(t, strings.Join([]string{
					srv.URL + "/",
					srv.URL + "/a",
					srv.URL + "/a/deep",
					srv.URL + "/b",
					srv.URL + "/missing",
				}, "\n")+"\n", stdout.String())
				assert.Contains(t, stderr.String(), "skip "+srv.URL+"/missing")
				assert.Equal(t, 1, strings.Count(stderr.String(), "skip "))
				assert.NotContains(t, stderr.String(), "fetch failed")
				assert.NotContains(t, stderr.String(), "page fetched")
			})
		}
	}
}

func TestMain_Run_RespectsMaxDepth(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{srv.URL, "-d", "0", "--config", writeConfig(t, "")}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/a\n"+srv.URL+"/b\n", stdout.String())
}

func TestMain_Run_JSONFormat(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{srv.URL, "-f", "json", "--config", writeConfig(t, "")}, &stdout, &stderr)
	require.NoError(t, err)

	var doc struct {
		BaseURL  string   `json:"baseUrl"`
		Links    []string `json:"links"`
		Complete bool     `json:"complete"`
		Failures []struct {
			URL  string `json:"url"`
			Code string `json:"code"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Len(t, doc.Links, 5)
	assert.False(t, doc.Complete)
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, srv.URL+"/missing", doc.Failures[0].URL)
	assert.Equal(t, "fetch_failure", doc.Failures[0].Code)
}

func TestMain_Run_SitemapToFile(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	out := filepath.Join(t.TempDir(), "sitemap.xml")
	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{
		srv.URL, "--format", "sitemap", "--output", out, "--config", writeConfig(t, ""),
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Empty(t, stdout.String())
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(out))
	require.NotNil(t, doc.Root())
	assert.Len(t, doc.Root().SelectElements("url"), 5)
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	cfg := writeConfig(t, "max_depth: 0\nformat: json\n")
	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{srv.URL, "--config", cfg}, &stdout, &stderr)
	require.NoError(t, err)

	var doc struct {
		Links []string `json:"links"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, []string{srv.URL + "/a", srv.URL + "/b"}, doc.Links)
}

func TestMain_Run_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{
		"https://example.com", "--config", filepath.Join(t.TempDir(), "missing.yaml"),
	}, &stdout, &stderr)

	assert.Error(t, err)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
