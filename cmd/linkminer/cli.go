package main

import (
	"errors"
	"time"

	"github.com/fwojciec/linkminer"
	lmhttp "github.com/fwojciec/linkminer/http"
	lmyaml "github.com/fwojciec/linkminer/yaml"
)

// Output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatSitemap = "sitemap"
)

// CLI defines the command-line interface structure for Kong.
// Crawl settings are pointers so that values left unset on the command line
// and in the environment can fall back to the config file.
type CLI struct {
	URL         string         `arg:"" help:"Base URL to crawl"`
	MaxDepth    *int           `short:"d" env:"LINKMINER_MAX_DEPTH" help:"Maximum link depth to expand (default: 3)"`
	Timeout     *time.Duration `short:"t" env:"LINKMINER_TIMEOUT" help:"Fetch timeout per page (default: 10s)"`
	Order       *string        `short:"o" env:"LINKMINER_ORDER" help:"Traversal order: dfs or bfs (default: dfs)"`
	Mode        *string        `short:"m" env:"LINKMINER_MODE" help:"Execution mode: sequential, concurrent or async (default: sequential)"`
	Concurrency *int           `short:"c" env:"LINKMINER_CONCURRENCY" help:"Maximum fetches in flight (default: 10)"`
	Format      *string        `short:"f" env:"LINKMINER_FORMAT" help:"Output format: text, json or sitemap (default: text)"`
	Output      string         `env:"LINKMINER_OUTPUT" type:"path" help:"Write output atomically to this file instead of stdout"`
	Browser     bool           `env:"LINKMINER_BROWSER" help:"Render pages with headless Chrome"`
	Bloom       bool           `env:"LINKMINER_BLOOM" help:"Track visited URLs in a fixed-size Bloom filter"`
	UserAgent   *string        `env:"LINKMINER_USER_AGENT" help:"User-Agent header to send"`
	Config      string         `env:"LINKMINER_CONFIG" type:"path" help:"YAML config file (default: $XDG_CONFIG_HOME/linkminer/config.yaml)"`
	MetricsAddr string         `env:"LINKMINER_METRICS_ADDR" help:"Serve Prometheus metrics on this address during the crawl"`
	Progress    bool           `help:"Show a progress spinner on stderr"`
	Verbose     bool           `short:"v" help:"Enable debug logging"`
}

// Settings is the effective configuration for one run.
type Settings struct {
	Crawl       linkminer.CrawlConfig
	Format      string
	UserAgent   string
	Output      string
	Browser     bool
	Bloom       bool
	MetricsAddr string
	Progress    bool
	Verbose     bool
}

// Resolve merges flags, environment, config file and defaults, in that order
// of precedence, and validates the result.
func (c *CLI) Resolve() (*Settings, error) {
	s := &Settings{
		Crawl:       linkminer.DefaultCrawlConfig(c.URL),
		Format:      FormatText,
		UserAgent:   lmhttp.DefaultUserAgent,
		Output:      c.Output,
		Browser:     c.Browser,
		Bloom:       c.Bloom,
		MetricsAddr: c.MetricsAddr,
		Progress:    c.Progress,
		Verbose:     c.Verbose,
	}

	file, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if file != nil {
		file.Apply(&s.Crawl)
		if file.Format != nil {
			s.Format = *file.Format
		}
		if file.UserAgent != nil {
			s.UserAgent = *file.UserAgent
		}
	}

	if c.MaxDepth != nil {
		s.Crawl.MaxDepth = *c.MaxDepth
	}
	if c.Timeout != nil {
		s.Crawl.Timeout = *c.Timeout
	}
	if c.Order != nil {
		if s.Crawl.Order, err = linkminer.ParseTraversalOrder(*c.Order); err != nil {
			return nil, err
		}
	}
	if c.Mode != nil {
		if s.Crawl.Mode, err = linkminer.ParseExecutionMode(*c.Mode); err != nil {
			return nil, err
		}
	}
	if c.Concurrency != nil {
		if *c.Concurrency < 1 {
			return nil, linkminer.Errorf(linkminer.EINVALID, "concurrency must be at least 1")
		}
		s.Crawl.Concurrency = *c.Concurrency
	}
	if c.Format != nil {
		s.Format = *c.Format
	}
	if c.UserAgent != nil {
		s.UserAgent = *c.UserAgent
	}

	switch s.Format {
	case FormatText, FormatJSON, FormatSitemap:
	default:
		return nil, linkminer.Errorf(linkminer.EINVALID, "unknown output format %q", s.Format)
	}
	if err := s.Crawl.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadConfig reads the explicit config file, or the default one if it exists.
func (c *CLI) loadConfig() (*lmyaml.Config, error) {
	if c.Config != "" {
		return lmyaml.LoadConfig(c.Config)
	}
	file, err := lmyaml.LoadConfig(lmyaml.DefaultPath())
	if errors.Is(err, lmyaml.ErrConfigNotFound) {
		return nil, nil
	}
	return file, err
}
