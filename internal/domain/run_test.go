package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunContext(t *testing.T) {
	run := NewRunContext(3)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 3, run.StartPage)
	assert.Equal(t, 0, run.LastPageReached)
	assert.Empty(t, run.FailedVideos)
	assert.Empty(t, run.FailedPages)
}

func TestRunContext_RecordSuccess(t *testing.T) {
	run := NewRunContext(1)

	run.RecordSuccess()
	run.RecordSuccess()

	assert.Equal(t, 2, run.SuccessCount)
	assert.Equal(t, 0, run.FailureCount)
}

func TestRunContext_RecordVideoFailure(t *testing.T) {
	run := NewRunContext(1)

	run.RecordVideoFailure("123", errors.New("stream reset"), "https://cdn.example.com/v")

	assert.Equal(t, 1, run.FailureCount)
	assert.Equal(t, 0, run.SuccessCount)
	failure, ok := run.FailedVideos["123"]
	require.True(t, ok)
	assert.Equal(t, "stream reset", failure.Error)
	assert.Equal(t, "https://cdn.example.com/v", failure.URL)
}

func TestRunContext_RecordPageFailure(t *testing.T) {
	run := NewRunContext(1)

	run.RecordPageFailure(4, errors.New("status 500"))

	assert.Equal(t, "status 500", run.FailedPages[4])
	// Page failures don't touch the per-video counters
	assert.Equal(t, 0, run.FailureCount)
}

func TestRunContext_Summary(t *testing.T) {
	run := NewRunContext(2)
	run.LastPageReached = 5
	run.RecordSuccess()
	run.RecordVideoFailure("9", errors.New("boom"), "")

	summary := run.Summary()
	assert.Equal(t, 2, summary.StartPage)
	assert.Equal(t, 5, summary.LastPageReached)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)
	assert.Empty(t, summary.FailedPages)
}

func TestRunContext_Summary_NeverStarted(t *testing.T) {
	// The interrupt path can finalize before the first page is attempted
	run := NewRunContext(1)

	summary := run.Summary()
	assert.Equal(t, 0, summary.LastPageReached)
	assert.Equal(t, 0, summary.SuccessCount)
	assert.Equal(t, 0, summary.FailureCount)
}

func TestRunContext_SetLastPage(t *testing.T) {
	run := NewRunContext(1)

	run.SetLastPage(6)

	assert.Equal(t, 6, run.LastPageReached)
	assert.Equal(t, 6, run.Summary().LastPageReached)
}

func TestRunContext_FailureFor(t *testing.T) {
	run := NewRunContext(1)
	run.RecordVideoFailure("12", errors.New("boom"), "https://cdn.example.com/12")

	failure, ok := run.FailureFor("12")
	require.True(t, ok)
	assert.Equal(t, "boom", failure.Error)

	_, ok = run.FailureFor("13")
	assert.False(t, ok)
}

func TestRunContext_FailedVideosSnapshotIsCopy(t *testing.T) {
	run := NewRunContext(1)
	run.RecordVideoFailure("1", errors.New("first"), "")

	snapshot := run.FailedVideosSnapshot()
	run.RecordVideoFailure("2", errors.New("second"), "")

	assert.Len(t, snapshot, 1, "later failures must not leak into an earlier snapshot")
	assert.Len(t, run.FailedVideos, 2)
}

func TestRunContext_SummaryCopiesFailedPages(t *testing.T) {
	run := NewRunContext(1)
	run.RecordPageFailure(2, errors.New("status 500"))

	summary := run.Summary()
	run.RecordPageFailure(3, errors.New("status 502"))

	assert.Len(t, summary.FailedPages, 1)
}

func TestArchiveItem_MarkCompleted(t *testing.T) {
	item := NewArchiveItem("run-1", "123", "clip")

	item.MarkCompleted("clip.mp4", 1024)

	assert.Equal(t, ItemCompleted, item.Status)
	assert.Equal(t, "clip.mp4", item.FilePath)
	assert.Equal(t, int64(1024), item.Size)
}

func TestArchiveItem_MarkFailed(t *testing.T) {
	item := NewArchiveItem("run-1", "123", "clip")

	item.MarkFailed(errors.New("download stream failed"), "https://cdn.example.com/v")

	assert.Equal(t, ItemFailed, item.Status)
	assert.Equal(t, "download stream failed", item.ErrorMessage)
	assert.Equal(t, "https://cdn.example.com/v", item.SourceURL)
}

func TestArchiveRun_Finish(t *testing.T) {
	run := NewRunContext(1)
	run.LastPageReached = 3
	run.RecordSuccess()
	run.RecordVideoFailure("7", errors.New("boom"), "")

	record := NewArchiveRun(run.RunID, run.StartPage)
	record.Finish(run)

	assert.Equal(t, 3, record.LastPage)
	assert.Equal(t, 1, record.Succeeded)
	assert.Equal(t, 1, record.Failed)
	require.NotNil(t, record.FinishedAt)
}
