// Package httpx fetches remote text files for import.
package httpx

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

var (
	DefaultTimeout = 20 * time.Second
	// MaxBody bounds the bytes read from a response.
	MaxBody int64 = 1 << 20
)

// IsURL reports whether s names an http(s) resource.
func IsURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// GetText downloads rawURL and returns its file name and body. The name comes
// from Content-Disposition when present, else from the last path segment.
func GetText(ctx context.Context, rawURL string) (string, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Accept", "text/plain, text/markdown, */*;q=0.5")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, fmt.Errorf("GET %s: %s (%d)", rawURL, strings.TrimSpace(string(b)), resp.StatusCode)
	}
	all, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(all)) > MaxBody {
		return "", nil, fmt.Errorf("GET %s: body exceeds %d bytes", rawURL, MaxBody)
	}
	return fileName(resp, rawURL), all, nil
}

func fileName(resp *http.Response, rawURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}
