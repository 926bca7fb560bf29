// Package fetch ensures the storm-events dataset exists on local disk,
// downloading it once from the configured file host when absent.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dingshijian/tornado-dashboard/internal/observability"
)

// chunkSize bounds peak memory while copying the response body. The dataset
// is hundreds of MiB; 1 MiB chunks keep the copy cheap without large buffers.
const chunkSize = 1 << 20

// Fetcher downloads the dataset file when it is missing locally.
type Fetcher struct {
	client  *http.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Fetcher. The HTTP client carries no overall timeout: the
// download runs once at startup and a stalled transfer is only interrupted
// by cancelling ctx (e.g. SIGINT).
func New(logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		client:  &http.Client{},
		logger:  logger,
		metrics: metrics,
	}
}

// EnsureLocalCopy makes sure a file exists at path. If it already exists this
// is a no-op and no network call is made. Otherwise the file is fetched from
// rawURL with a streaming GET; a non-200 response is an error and the caller
// is expected to treat it as fatal. The body is written through a temporary
// file renamed into place, so a mid-stream failure never leaves a truncated
// dataset behind.
func (f *Fetcher) EnsureLocalCopy(ctx context.Context, path, rawURL string) error {
	if _, err := os.Stat(path); err == nil {
		f.logger.Info("dataset already present", "path", path)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat dataset: %w", err)
	}

	f.logger.Info("downloading dataset", "path", path, "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("dataset request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset host returned status %d", resp.StatusCode)
	}

	written, err := f.writeFile(path, resp.Body)
	if err != nil {
		return err
	}

	f.logger.Info("download complete", "path", path, "bytes", written)
	return nil
}

// writeFile streams body into path via a sibling temp file and an atomic
// rename. The temp file is removed on every failure path.
func (f *Fetcher) writeFile(path string, body io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.CopyBuffer(tmp, body, make([]byte, chunkSize))
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close dataset: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("move dataset into place: %w", err)
	}

	f.metrics.DownloadBytes.Add(float64(written))
	return written, nil
}
