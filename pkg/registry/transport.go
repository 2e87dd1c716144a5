package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/purse-pm/purse/pkg/httputil"
	"github.com/purse-pm/purse/pkg/observability"
	"github.com/purse-pm/purse/pkg/packset"
)

const httpTimeout = 10 * time.Second

// maxTags bounds how many tags one listing returns. The remote source
// orders tags newest-first; this ordering is load-bearing, since the first
// element defines the latest tag.
const maxTags = 100

var (
	// ErrNotFound is returned when a tag or document doesn't exist in
	// the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures (timeouts,
	// connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Transport retrieves raw registry documents. Implementations know nothing
// about caching; the Fetcher layers cache policy on top.
type Transport interface {
	// FetchTags lists package-set tags, newest first, at most maxTags.
	FetchTags(ctx context.Context) ([]string, error)

	// FetchPackageSet retrieves and parses the package-set document
	// published under tag.
	FetchPackageSet(ctx context.Context, tag string) (packset.PackageSet, error)
}

// Endpoints names the two remote locations a transport talks to.
type Endpoints struct {
	// TagsURL lists available tags, e.g. the GitHub tags API for the
	// package-sets repository.
	TagsURL string

	// SetURLTemplate is a fmt template with one %s verb for the tag,
	// resolving to the packages.json document for that tag.
	SetURLTemplate string
}

// DefaultEndpoints points at the upstream package-sets repository.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		TagsURL:        fmt.Sprintf("https://api.github.com/repos/purescript/package-sets/tags?per_page=%d", maxTags),
		SetURLTemplate: "https://raw.githubusercontent.com/purescript/package-sets/%s/packages.json",
	}
}

// HTTPTransport implements Transport over plain HTTP GETs with retry.
// Safe for concurrent use.
type HTTPTransport struct {
	http      *http.Client
	endpoints Endpoints
	userAgent string
}

// NewHTTPTransport creates a transport for the given endpoints.
func NewHTTPTransport(endpoints Endpoints) *HTTPTransport {
	return &HTTPTransport{
		http:      &http.Client{Timeout: httpTimeout},
		endpoints: endpoints,
		userAgent: "purse/1.0",
	}
}

// tagEntry matches the GitHub tags API response shape.
type tagEntry struct {
	Name string `json:"name"`
}

// FetchTags lists tags from the registry, newest first.
func (t *HTTPTransport) FetchTags(ctx context.Context) ([]string, error) {
	var entries []tagEntry
	if err := t.getJSON(ctx, t.endpoints.TagsURL, &entries); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]string, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, e.Name)
		if len(tags) == maxTags {
			break
		}
	}
	return tags, nil
}

// setDocument matches the packages.json document shape: a map from package
// name to its pinned record.
type setDocument map[string]struct {
	Dependencies []string `json:"dependencies"`
	Repo         string   `json:"repo"`
	Version      string   `json:"version"`
}

// FetchPackageSet retrieves the package-set document for tag.
func (t *HTTPTransport) FetchPackageSet(ctx context.Context, tag string) (packset.PackageSet, error) {
	u := fmt.Sprintf(t.endpoints.SetURLTemplate, url.PathEscape(tag))

	var doc setDocument
	if err := t.getJSON(ctx, u, &doc); err != nil {
		return nil, fmt.Errorf("fetch package set %q: %w", tag, err)
	}

	set := make(packset.PackageSet, len(doc))
	for name, entry := range doc {
		set[name] = packset.PackageRecord{
			Name:         name,
			Version:      entry.Version,
			Repo:         entry.Repo,
			Dependencies: entry.Dependencies,
		}
	}
	return set, nil
}

// getJSON performs a GET with retry and decodes the response body into v.
// 5xx responses and connection errors are retried; 404 maps to ErrNotFound.
func (t *HTTPTransport) getJSON(ctx context.Context, rawURL string, v any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		body, err := t.doRequest(ctx, rawURL)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

func (t *HTTPTransport) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)

	resp, err := t.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
