package endpoint

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func mustPage(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolver_BaseURL(t *testing.T) {
	r := Resolver{LocalURL: "http://localhost:8080", ProductionURL: "https://api.example.org/"}

	tests := []struct {
		name  string
		page  string
		force bool
		want  string
	}{
		{"localhost", "http://localhost:3000/", false, "http://localhost:8080"},
		{"loopback", "http://127.0.0.1:5500/index.html", false, "http://localhost:8080"},
		{"deployed", "https://showcase.example.org/", false, "https://api.example.org"},
		{"lan address", "http://192.168.1.20:3000/", false, "https://api.example.org"},
		{"forced on localhost", "http://localhost:3000/", true, "https://api.example.org"},
		{"forced on loopback", "http://127.0.0.1:3000/", true, "https://api.example.org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.ForceProduction = tt.force
			assert.Equal(t, tt.want, r.BaseURL(mustPage(t, tt.page)))
		})
	}
}

func TestResolver_EmptyProductionUsesPageOrigin(t *testing.T) {
	r := Resolver{}
	assert.Equal(t, "https://showcase.example.org", r.BaseURL(mustPage(t, "https://showcase.example.org/some/page")))
	assert.Equal(t, DefaultLocalURL, r.BaseURL(mustPage(t, "http://localhost:3000/")))
}

func TestParsePage_BareHost(t *testing.T) {
	u, err := ParsePage("localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost", u.Hostname())
}

func TestChain_Candidates(t *testing.T) {
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, nil, true)
	page := mustPage(t, "http://127.0.0.1:3000/")

	got := c.Candidates(page, "/api/projects")
	assert.Equal(t, []string{
		"http://localhost:8080/api/projects",
		"http://127.0.0.1:8080/api/projects",
		"http://127.0.0.1:3000/api/projects",
	}, got)
}

func TestChain_Candidates_NoFallback(t *testing.T) {
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, nil, false)
	got := c.Candidates(mustPage(t, "http://127.0.0.1:3000/"), "/api/projects")
	assert.Equal(t, []string{"http://localhost:8080/api/projects"}, got)
}

func TestChain_Candidates_Dedupes(t *testing.T) {
	// Production origin equals the page origin, so all three collapse.
	c := NewChain(Resolver{}, nil, true)
	got := c.Candidates(mustPage(t, "https://showcase.example.org/"), "/api/projects")
	assert.Equal(t, []string{"https://showcase.example.org/api/projects"}, got)
}

func TestChain_Do_FallsBackOnConnectionError(t *testing.T) {
	var tried []string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		tried = append(tried, r.URL.String())
		if r.URL.Host == "localhost:8080" {
			return nil, errors.New("connection refused")
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("[]")), Request: r}, nil
	})}
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, client, true)

	resp, err := c.Do(context.Background(), mustPage(t, "http://127.0.0.1:3000/"), http.MethodGet, "/api/projects", nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, []string{
		"http://localhost:8080/api/projects",
		"http://127.0.0.1:8080/api/projects",
	}, tried)
}

func TestChain_Do_StatusErrorDoesNotFallBack(t *testing.T) {
	calls := 0
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader("boom")), Request: r}, nil
	})}
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, client, true)

	resp, err := c.Do(context.Background(), mustPage(t, "http://127.0.0.1:3000/"), http.MethodGet, "/api/projects", nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestChain_Do_AllFail(t *testing.T) {
	refused := errors.New("connection refused")
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, refused
	})}
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, client, true)

	_, err := c.Do(context.Background(), mustPage(t, "http://127.0.0.1:3000/"), http.MethodGet, "/api/projects", nil, nil)
	require.Error(t, err)

	var chainErr *ChainError
	require.ErrorAs(t, err, &chainErr)
	assert.Len(t, chainErr.Attempts, 3)
	assert.Contains(t, err.Error(), "http://localhost:8080/api/projects")
	assert.Contains(t, err.Error(), "http://127.0.0.1:8080/api/projects")
	assert.Contains(t, err.Error(), "http://127.0.0.1:3000/api/projects")
	assert.ErrorIs(t, err, refused)
}

func TestChain_Do_ResendsBody(t *testing.T) {
	var bodies []string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) < 3 {
			return nil, errors.New("connection refused")
		}
		return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(strings.NewReader("")), Request: r}, nil
	})}
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, client, true)

	resp, err := c.Do(context.Background(), mustPage(t, "http://127.0.0.1:3000/"), http.MethodPost, "/api/projects",
		[]byte(`{"github_url":"x"}`), http.Header{"Content-Type": {"application/json"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, []string{`{"github_url":"x"}`, `{"github_url":"x"}`, `{"github_url":"x"}`}, bodies)
}

func TestChain_Do_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		cancel()
		return nil, context.Canceled
	})}
	c := NewChain(Resolver{LocalURL: "http://localhost:8080"}, client, true)

	_, err := c.Do(ctx, mustPage(t, "http://127.0.0.1:3000/"), http.MethodGet, "/api/projects", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}
