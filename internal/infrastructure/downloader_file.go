package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/yourusername/vimeo-archiver/internal/domain"
	"go.uber.org/zap"
)

// FileDownloader streams rendition URLs into the destination directory.
// Downloads run one at a time with no timeout, retry, or checksum; a failed
// stream leaves the truncated file on disk.
type FileDownloader struct {
	destDir    string
	httpClient *http.Client
	logger     *zap.Logger
	createFile func(path string) (io.WriteCloser, error) // replaced in tests
}

// NewFileDownloader creates a downloader writing into destDir
func NewFileDownloader(destDir string, logger *zap.Logger) *FileDownloader {
	return &FileDownloader{
		destDir:    destDir,
		httpClient: &http.Client{},
		logger:     logger,
		createFile: func(path string) (io.WriteCloser, error) { return os.Create(path) },
	}
}

// Download streams url into destDir/fileName, overwriting any existing file.
// The outcome is recorded in the run context; the return value reports
// success. fileName is used as-is, without sanitization.
func (d *FileDownloader) Download(ctx context.Context, run *domain.RunContext, fileName, url, videoID, sizeHint string) bool {
	destPath := filepath.Join(d.destDir, fileName)

	d.logger.Info("Downloading video",
		zap.String("video_id", videoID),
		zap.String("file", destPath),
		zap.String("size", sizeHint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return d.fail(run, videoID, url, fmt.Errorf("failed to build download request: %w", err))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return d.fail(run, videoID, url, fmt.Errorf("download request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return d.fail(run, videoID, url, fmt.Errorf("download returned status %d", resp.StatusCode))
	}

	out, err := d.createFile(destPath)
	if err != nil {
		return d.fail(run, videoID, url, fmt.Errorf("failed to create %s: %w", destPath, err))
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		// The partial file stays on disk, truncated at the failure point.
		return d.fail(run, videoID, url, fmt.Errorf("download stream failed after %d bytes: %w", written, err))
	}

	// A close error means the last writes may not have reached disk, so it
	// counts as a failed download.
	if err := out.Close(); err != nil {
		return d.fail(run, videoID, url, fmt.Errorf("failed to close %s: %w", destPath, err))
	}

	run.RecordSuccess()
	d.logger.Info("Download completed",
		zap.String("video_id", videoID),
		zap.String("file", destPath),
		zap.Int64("bytes", written))
	return true
}

func (d *FileDownloader) fail(run *domain.RunContext, videoID, url string, err error) bool {
	run.RecordVideoFailure(videoID, err, url)
	d.logger.Warn("Download failed",
		zap.String("video_id", videoID),
		zap.String("url", url),
		zap.Error(err))
	return false
}
