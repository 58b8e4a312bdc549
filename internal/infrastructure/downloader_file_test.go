package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/vimeo-archiver/internal/domain"
	"github.com/yourusername/vimeo-archiver/pkg/logger"
)

func TestDownload_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video bytes"))
	}))
	defer server.Close()

	destDir := t.TempDir()
	run := domain.NewRunContext(1)
	dl := NewFileDownloader(destDir, logger.NewDefault())

	ok := dl.Download(context.Background(), run, "clip.mp4", server.URL, "123", "11B")

	assert.True(t, ok)
	assert.Equal(t, 1, run.SuccessCount)
	assert.Equal(t, 0, run.FailureCount)

	data, err := os.ReadFile(filepath.Join(destDir, "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(data))
}

func TestDownload_OverwritesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("new content"))
	}))
	defer server.Close()

	destDir := t.TempDir()
	dest := filepath.Join(destDir, "clip.mp4")
	require.NoError(t, os.WriteFile(dest, []byte("old content that is longer"), 0644))

	run := domain.NewRunContext(1)
	ok := NewFileDownloader(destDir, logger.NewDefault()).
		Download(context.Background(), run, "clip.mp4", server.URL, "123", "")

	assert.True(t, ok)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestDownload_StreamFailureMidTransfer(t *testing.T) {
	// Advertise more bytes than are sent, then drop the connection: io.Copy
	// sees an unexpected EOF partway through the body.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("partial"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer server.Close()

	destDir := t.TempDir()
	run := domain.NewRunContext(1)

	ok := NewFileDownloader(destDir, logger.NewDefault()).
		Download(context.Background(), run, "clip.mp4", server.URL, "456", "1KB")

	assert.False(t, ok)
	assert.Equal(t, 1, run.FailureCount, "stream failure counts exactly once")
	assert.Equal(t, 0, run.SuccessCount)

	failure, recorded := run.FailedVideos["456"]
	require.True(t, recorded)
	assert.Equal(t, server.URL, failure.URL)

	// The truncated file is left on disk, not deleted
	info, err := os.Stat(filepath.Join(destDir, "clip.mp4"))
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(1000))
}

func TestDownload_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	destDir := t.TempDir()
	run := domain.NewRunContext(1)

	ok := NewFileDownloader(destDir, logger.NewDefault()).
		Download(context.Background(), run, "clip.mp4", server.URL, "789", "")

	assert.False(t, ok)
	assert.Equal(t, 1, run.FailureCount)
	assert.Contains(t, run.FailedVideos["789"].Error, "404")

	// No file is created for a refused download
	_, err := os.Stat(filepath.Join(destDir, "clip.mp4"))
	assert.True(t, os.IsNotExist(err))
}

// closeFailWriter discards writes and fails on close, standing in for a file
// whose final flush hits a full disk.
type closeFailWriter struct{}

func (closeFailWriter) Write(p []byte) (int, error) { return len(p), nil }
func (closeFailWriter) Close() error                { return errors.New("no space left on device") }

func TestDownload_CloseFailureIsAFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video bytes"))
	}))
	defer server.Close()

	run := domain.NewRunContext(1)
	dl := NewFileDownloader(t.TempDir(), logger.NewDefault())
	dl.createFile = func(path string) (io.WriteCloser, error) {
		return closeFailWriter{}, nil
	}

	ok := dl.Download(context.Background(), run, "clip.mp4", server.URL, "42", "")

	assert.False(t, ok)
	assert.Equal(t, 0, run.SuccessCount, "a file that fails to close is not a success")
	assert.Equal(t, 1, run.FailureCount)
	failure, recorded := run.FailedVideos["42"]
	require.True(t, recorded)
	assert.Contains(t, failure.Error, "close")
}

func TestDownload_RequestSetupFailure(t *testing.T) {
	destDir := t.TempDir()
	run := domain.NewRunContext(1)

	ok := NewFileDownloader(destDir, logger.NewDefault()).
		Download(context.Background(), run, "clip.mp4", "http://[::1]:0:bad", "999", "")

	assert.False(t, ok)
	assert.Equal(t, 1, run.FailureCount)
	_, recorded := run.FailedVideos["999"]
	assert.True(t, recorded)
}

func TestDownload_SequentialOutcomesAccumulate(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits%2 == 0 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	destDir := t.TempDir()
	run := domain.NewRunContext(1)
	dl := NewFileDownloader(destDir, logger.NewDefault())

	dl.Download(context.Background(), run, "a.mp4", server.URL, "1", "")
	dl.Download(context.Background(), run, "b.mp4", server.URL, "2", "")
	dl.Download(context.Background(), run, "c.mp4", server.URL, "3", "")

	assert.Equal(t, 2, run.SuccessCount)
	assert.Equal(t, 1, run.FailureCount)
	assert.Len(t, run.FailedVideos, 1)
}
