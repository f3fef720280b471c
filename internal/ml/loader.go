package ml

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// ArtifactInfo describes a model artifact that was materialized on disk.
type ArtifactInfo struct {
	SourceURL string
	Path      string
	SHA256    string
	Size      int64
	FetchedAt time.Time
}

// ArtifactRecorder persists a record of each downloaded artifact. The storage
// package implements it; a nil recorder disables version tracking.
type ArtifactRecorder interface {
	RecordArtifact(info ArtifactInfo) error
}

// DownloadMetrics counts artifact downloads. A nil value disables counting.
type DownloadMetrics interface {
	DownloadsInc()
}

// Loader acquires the model artifact and resolves the model from it.
type Loader struct {
	client   *resty.Client
	recorder ArtifactRecorder
	metrics  DownloadMetrics
}

func NewLoader(timeout time.Duration, recorder ArtifactRecorder, metrics DownloadMetrics) *Loader {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	} else {
		client.SetTimeout(30 * time.Second)
	}
	return &Loader{client: client, recorder: recorder, metrics: metrics}
}

// Ensure makes sure the artifact exists at path, downloading it from url when
// absent, and returns the model resolved from it. The returned model is ready
// for concurrent use; callers must finish Ensure before serving requests.
func (l *Loader) Ensure(ctx context.Context, url, path string) (Model, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, &ModelLoadError{Path: path, Err: err}
		}
		if url == "" {
			return nil, &ModelLoadError{Path: path, Err: errors.New("artifact missing and no model URL configured")}
		}
		if err := l.download(ctx, url, path); err != nil {
			return nil, &ModelLoadError{Path: path, Err: err}
		}
	}
	return LoadModel(path)
}

func (l *Loader) download(ctx context.Context, url, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}

	log.Info().Str("url", url).Str("path", path).Msg("downloading model artifact")

	resp, err := l.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("fetch artifact: %w", err)
	}

	// Google Drive interposes a confirmation page for large files; retry with
	// the token from the download_warning cookie.
	if strings.Contains(url, "drive.google.com") {
		for _, cookie := range resp.Cookies() {
			if strings.HasPrefix(cookie.Name, "download_warning") {
				resp, err = l.client.R().SetContext(ctx).Get(url + "&confirm=" + cookie.Value)
				if err != nil {
					return fmt.Errorf("fetch artifact with confirm token: %w", err)
				}
				break
			}
		}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("fetch artifact: unexpected status %d", resp.StatusCode())
	}

	body := resp.Body()
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	if l.metrics != nil {
		l.metrics.DownloadsInc()
	}

	if l.recorder != nil {
		sum := sha256.Sum256(body)
		info := ArtifactInfo{
			SourceURL: url,
			Path:      path,
			SHA256:    hex.EncodeToString(sum[:]),
			Size:      int64(len(body)),
			FetchedAt: time.Now(),
		}
		if err := l.recorder.RecordArtifact(info); err != nil {
			log.Warn().Err(err).Msg("failed to record model version")
		}
	}

	log.Info().Str("path", path).Int("bytes", len(body)).Msg("model artifact downloaded")
	return nil
}
