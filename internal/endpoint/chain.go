package endpoint

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Attempt records one candidate URL that failed at the transport level.
type Attempt struct {
	URL string
	Err error
}

// ChainError is returned when every candidate URL failed to produce a response.
type ChainError struct {
	Attempts []Attempt
}

func (e *ChainError) Error() string {
	urls := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		urls[i] = a.URL
	}
	msg := fmt.Sprintf("backend unreachable, tried %s", strings.Join(urls, ", "))
	if n := len(e.Attempts); n > 0 {
		msg += fmt.Sprintf(": %v", e.Attempts[n-1].Err)
	}
	return msg
}

// Unwrap exposes every attempt error to errors.Is and errors.As.
func (e *ChainError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Chain issues backend requests against the resolved origin and, when
// Fallback is set, against alternate origins after connection failures.
type Chain struct {
	Resolver Resolver
	Client   *http.Client
	Fallback bool
}

// NewChain returns a Chain using client, or http.DefaultClient when nil.
func NewChain(r Resolver, client *http.Client, fallback bool) *Chain {
	if client == nil {
		client = http.DefaultClient
	}
	return &Chain{Resolver: r, Client: client, Fallback: fallback}
}

// Candidates lists the URLs tried for path, in order:
//  1. the resolved base URL
//  2. the base URL with its hostname replaced by the page hostname
//  3. path relative to the page origin
//
// Duplicates are dropped.
func (c *Chain) Candidates(page *url.URL, path string) []string {
	base := c.Resolver.BaseURL(page)
	out := []string{joinPath(base, path)}
	if !c.Fallback {
		return out
	}

	if bu, err := url.Parse(base); err == nil && bu.Host != "" {
		host := page.Hostname()
		if port := bu.Port(); port != "" {
			host = net.JoinHostPort(host, port)
		}
		sub := *bu
		sub.Host = host
		out = appendUnique(out, joinPath(sub.String(), path))
	}

	if ref, err := url.Parse(path); err == nil {
		out = appendUnique(out, page.ResolveReference(ref).String())
	}
	return out
}

// Do sends the request to each candidate until one answers. Any HTTP
// response, whatever its status, ends the chain. Only transport failures
// move on to the next candidate.
func (c *Chain) Do(ctx context.Context, page *url.URL, method, path string, body []byte, header http.Header) (*http.Response, error) {
	chainErr := &ChainError{}
	for _, u := range c.Candidates(page, path) {
		var rdr *bytes.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := newRequest(ctx, method, u, rdr)
		if err != nil {
			return nil, fmt.Errorf("build request %s %s: %w", method, u, err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.Client.Do(req)
		if err == nil {
			return resp, nil
		}
		chainErr.Attempts = append(chainErr.Attempts, Attempt{URL: u, Err: err})
		if ctx.Err() != nil {
			break
		}
		slog.Warn("backend endpoint unreachable", "method", method, "url", u, "error", err)
	}
	return nil, chainErr
}

func newRequest(ctx context.Context, method, u string, body *bytes.Reader) (*http.Request, error) {
	if body == nil {
		return http.NewRequestWithContext(ctx, method, u, nil)
	}
	return http.NewRequestWithContext(ctx, method, u, body)
}

func joinPath(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
