package main_test

import (
	"testing"
	"time"

	"github.com/fwojciec/linkminer"
	main "github.com/fwojciec/linkminer/cmd/linkminer"
	lmhttp "github.com/fwojciec/linkminer/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCLI_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults when nothing is set", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{URL: "https://example.com/", Config: writeConfig(t, "")}

		s, err := cli.Resolve()
		require.NoError(t, err)

		assert.Equal(t, linkminer.DefaultCrawlConfig("https://example.com/"), s.Crawl)
		assert.Equal(t, main.FormatText, s.Format)
		assert.Equal(t, lmhttp.DefaultUserAgent, s.UserAgent)
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{
			URL:    "https://example.com/",
			Config: writeConfig(t, "max_depth: 5\ntimeout: 3s\nmode: async\nformat: sitemap\nuser_agent: file-agent\n"),
		}

		s, err := cli.Resolve()
		require.NoError(t, err)

		assert.Equal(t, 5, s.Crawl.MaxDepth)
		assert.Equal(t, 3*time.Second, s.Crawl.Timeout)
		assert.Equal(t, linkminer.Async, s.Crawl.Mode)
		assert.Equal(t, linkminer.DFS, s.Crawl.Order)
		assert.Equal(t, main.FormatSitemap, s.Format)
		assert.Equal(t, "file-agent", s.UserAgent)
	})

	t.Run("flags override config file", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{
			URL:         "https://example.com/",
			Config:      writeConfig(t, "max_depth: 5\nmode: async\nconcurrency: 8\nformat: sitemap\n"),
			MaxDepth:    ptr(1),
			Mode:        ptr("concurrent"),
			Order:       ptr("BFS"),
			Concurrency: ptr(2),
			Format:      ptr("json"),
			UserAgent:   ptr("flag-agent"),
		}

		s, err := cli.Resolve()
		require.NoError(t, err)

		assert.Equal(t, 1, s.Crawl.MaxDepth)
		assert.Equal(t, linkminer.Concurrent, s.Crawl.Mode)
		assert.Equal(t, linkminer.BFS, s.Crawl.Order)
		assert.Equal(t, 2, s.Crawl.Concurrency)
		assert.Equal(t, main.FormatJSON, s.Format)
		assert.Equal(t, "flag-agent", s.UserAgent)
	})

	t.Run("zero depth flag is honored", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{URL: "https://example.com/", Config: writeConfig(t, "max_depth: 5\n"), MaxDepth: ptr(0)}

		s, err := cli.Resolve()
		require.NoError(t, err)

		assert.Equal(t, 0, s.Crawl.MaxDepth)
	})

	t.Run("rejects invalid settings", func(t *testing.T) {
		t.Parallel()

		tests := map[string]*main.CLI{
			"zero concurrency": {URL: "https://example.com/", Concurrency: ptr(0)},
			"unknown format":   {URL: "https://example.com/", Format: ptr("csv")},
			"unknown order":    {URL: "https://example.com/", Order: ptr("random")},
			"ftp url":          {URL: "ftp://example.com/"},
		}
		for name, cli := range tests {
			cli.Config = writeConfig(t, "")
			_, err := cli.Resolve()
			assert.Equal(t, linkminer.EINVALID, linkminer.ErrorCode(err), name)
		}
	})
}
