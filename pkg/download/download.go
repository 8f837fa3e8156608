package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fetcher stores the media for a source identifier at destPath
type Fetcher interface {
	Fetch(ctx context.Context, sourceID string, destPath string) error
}

// DownloadOptions configures the download behavior
type DownloadOptions struct {
	URLTemplate   string        // Source URL with an {id} placeholder
	MaxSize       int64         // Maximum file size in bytes (0 = no limit)
	Timeout       time.Duration // Download timeout (0 = no timeout)
	ProgressFunc  ProgressFunc  // Optional progress callback
	UserAgent     string        // User agent string
	ValidateMedia bool          // Validate content-type is audio or video
}

// ProgressFunc is called during download to report progress
type ProgressFunc func(downloaded, total int64)

// DefaultOptions returns default download options
func DefaultOptions() DownloadOptions {
	return DownloadOptions{
		MaxSize:       2 * 1024 * 1024 * 1024,
		UserAgent:     "herotrend/1.0",
		ValidateMedia: true,
	}
}

// DownloadResult contains information about a successful download
type DownloadResult struct {
	FilePath      string
	ContentType   string
	ContentLength int64
}

// Downloader fetches media over plain HTTP
type Downloader struct {
	client  *http.Client
	options DownloadOptions
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options DownloadOptions) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// SourceURL expands the URL template for an identifier
func (d *Downloader) SourceURL(sourceID string) string {
	return strings.ReplaceAll(d.options.URLTemplate, "{id}", url.PathEscape(sourceID))
}

// Fetch implements Fetcher
func (d *Downloader) Fetch(ctx context.Context, sourceID string, destPath string) error {
	_, err := d.Download(ctx, d.SourceURL(sourceID), destPath)
	return err
}

// Download fetches url into destPath. The body is written to a sibling temp file
// that is renamed into place only once the transfer completed.
func (d *Downloader) Download(ctx context.Context, url string, destPath string) (*DownloadResult, error) {
	zap.L().Debug("Starting download", zap.String("url", url), zap.String("dest", destPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.options.UserAgent)
	req.Header.Set("Accept", "video/*,audio/*,*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if d.options.ValidateMedia && !isMediaContentType(contentType) {
		return nil, fmt.Errorf("invalid content type: %s", contentType)
	}

	contentLength := resp.ContentLength
	if d.options.MaxSize > 0 && contentLength > d.options.MaxSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", contentLength, d.options.MaxSize)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*.part")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	written, err := d.downloadToFile(resp.Body, tempFile, contentLength)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && d.options.MaxSize > 0 && written > d.options.MaxSize {
		err = fmt.Errorf("file too large: more than %d bytes", d.options.MaxSize)
	}
	if err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to move download into place: %w", err)
	}

	zap.L().Debug("Download complete", zap.Int64("bytes", written), zap.String("dest", destPath))

	return &DownloadResult{
		FilePath:      destPath,
		ContentType:   contentType,
		ContentLength: written,
	}, nil
}

// downloadToFile copies the response body with optional progress tracking
func (d *Downloader) downloadToFile(src io.Reader, dst *os.File, totalSize int64) (int64, error) {
	reader := src
	if d.options.ProgressFunc != nil && totalSize > 0 {
		reader = &progressReader{
			reader:   src,
			total:    totalSize,
			callback: d.options.ProgressFunc,
		}
	}

	// One byte over the limit is enough to detect an oversized body
	if d.options.MaxSize > 0 {
		reader = &io.LimitedReader{
			R: reader,
			N: d.options.MaxSize + 1,
		}
	}

	return io.Copy(dst, reader)
}

// isMediaContentType checks if content type is audio or video
func isMediaContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.HasPrefix(contentType, "audio/") ||
		strings.HasPrefix(contentType, "video/") ||
		strings.HasPrefix(contentType, "application/octet-stream")
}

// progressReader wraps a reader to report progress
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		if pr.callback != nil {
			pr.callback(pr.downloaded, pr.total)
		}
	}
	return n, err
}
