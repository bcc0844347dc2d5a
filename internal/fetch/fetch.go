package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/fedsheet/internal/buildinfo"
)

// ErrUnexpectedStatus is returned for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client downloads archives, keeping a copy of each response body in
// CacheDir keyed by URL.
type Client struct {
	CacheDir string
	Client   Doer
	log      *logrus.Logger
}

// NewClient creates a caching client. A nil client uses http.DefaultClient
// and a nil logger a fresh logrus logger.
func NewClient(cacheDir string, client Doer, log *logrus.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logrus.New()
	}
	return &Client{CacheDir: cacheDir, Client: client, log: log}
}

// Download returns the cached copy of url, downloading it first when it is
// not cached or force is set. The second result reports a cache hit.
func (c *Client) Download(ctx context.Context, url string, force bool) (string, bool, error) {
	cachePath := filepath.Join(c.CacheDir, cacheKey(url)+".zip")
	log := c.log.WithField("url", url)

	if !force {
		if _, err := os.Stat(cachePath); err == nil {
			log.WithField("path", cachePath).Debug("using cached download")
			return cachePath, true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("downloading %s: %w: %s", url, ErrUnexpectedStatus, resp.Status)
	}

	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.CacheDir, "download-*")
	if err != nil {
		return "", false, fmt.Errorf("creating cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		return "", false, fmt.Errorf("caching download: %w", err)
	}

	log.WithFields(logrus.Fields{"path": cachePath, "bytes": n}).Info("downloaded release archive")
	return cachePath, false, nil
}

// Fetch downloads url and extracts members into dir, returning the paths
// written.
func (c *Client) Fetch(ctx context.Context, url, dir string, force bool, members ...string) ([]string, error) {
	archive, _, err := c.Download(ctx, url, force)
	if err != nil {
		return nil, err
	}
	return Extract(archive, dir, members...)
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}
