package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/joescharf/osg/internal/backend"
	"github.com/joescharf/osg/internal/endpoint"
	"github.com/joescharf/osg/internal/github"
)

// configureLogging installs the default slog logger from log.level and
// log.format. --verbose forces debug.
func configureLogging(w io.Writer) *slog.Logger {
	level := parseLevel(viper.GetString("log.level"))
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(viper.GetString("log.format"), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func userAgent() string {
	return "osg/" + buildVersion
}

// httpClient returns the client shared by backend and GitHub calls.
// http.timeout of 0 means no timeout.
func httpClient() *http.Client {
	return &http.Client{Timeout: viper.GetDuration("http.timeout")}
}

// newBackend builds the backend client from the backend.* keys.
func newBackend() *backend.Client {
	r := endpoint.Resolver{
		LocalURL:        viper.GetString("backend.local_url"),
		ProductionURL:   viper.GetString("backend.production_url"),
		ForceProduction: viper.GetBool("backend.force_production"),
	}
	chain := endpoint.NewChain(r, httpClient(), viper.GetBool("backend.fallback"))
	return backend.NewClient(chain, userAgent())
}

// newPreviewer builds the GitHub client from the github.* keys.
func newPreviewer() (*github.Client, error) {
	gc, err := github.NewClient(github.Options{
		Token:      viper.GetString("github.token"),
		BaseURL:    viper.GetString("github.api_url"),
		HTTPClient: httpClient(),
		UserAgent:  userAgent(),
	})
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}
	return gc, nil
}

// sitePage returns the page URL the terminal surfaces resolve the backend
// for, standing in for the browser's location.
func sitePage() (*url.URL, error) {
	raw := viper.GetString("site.url")
	page, err := endpoint.ParsePage(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid site.url %q: %w", raw, err)
	}
	return page, nil
}
