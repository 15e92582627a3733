package csvtable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher retrieves the text content of a resource.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// FetchError reports a resource that could not be retrieved, either because
// the transport failed or because the source answered with a non-success
// status.
type FetchError struct {
	Path       string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to load %s: status %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to load %s", e.Path)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a FetchError for a missing resource.
func IsNotFound(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.StatusCode == http.StatusNotFound || errors.Is(fe.Err, os.ErrNotExist)
}

// NewFetcher returns an HTTPFetcher for http(s) sources and a DirFetcher
// rooted at source otherwise.
func NewFetcher(source string, timeout time.Duration) Fetcher {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTPFetcher(source, timeout)
	}
	return NewDirFetcher(source)
}

// HTTPFetcher fetches resources relative to a base URL.
type HTTPFetcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A zero timeout leaves the transport
// default in place.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (string, error) {
	u := f.baseURL + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &FetchError{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}

// DirFetcher serves resources from a local directory, mirroring how the
// dashboard's static /data directory is laid out on disk.
type DirFetcher struct {
	root string
}

func NewDirFetcher(root string) *DirFetcher {
	return &DirFetcher{root: root}
}

func (f *DirFetcher) Fetch(_ context.Context, path string) (string, error) {
	full := filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", &FetchError{Path: path, Err: err}
	}
	return string(data), nil
}
