package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// VideoFailure records why a single video could not be archived.
type VideoFailure struct {
	Error string `json:"error"`
	URL   string `json:"url,omitempty"`
}

// RunSummary is the final accounting of one archive run.
type RunSummary struct {
	StartPage       int            `json:"start_page"`
	LastPageReached int            `json:"last_page_reached,omitempty"`
	SuccessCount    int            `json:"success_count"`
	FailureCount    int            `json:"failure_count"`
	FailedPages     map[int]string `json:"failed_pages,omitempty"`
}

// RunContext carries the mutable state of one archive run. It is created
// once at startup and passed to each pipeline stage. The pipeline mutates it
// from a single goroutine, but the signal path reads it for the final report
// while a download may still be in flight, so a mutex guards all access.
type RunContext struct {
	RunID           string
	StartPage       int
	LastPageReached int // 0 until the first page is attempted
	SuccessCount    int
	FailureCount    int
	FailedVideos    map[string]VideoFailure
	FailedPages     map[int]string

	mu sync.Mutex
}

// NewRunContext creates the run state for a run starting at startPage.
func NewRunContext(startPage int) *RunContext {
	return &RunContext{
		RunID:        uuid.New().String(),
		StartPage:    startPage,
		FailedVideos: make(map[string]VideoFailure),
		FailedPages:  make(map[int]string),
	}
}

// RecordSuccess counts one completed download.
func (rc *RunContext) RecordSuccess() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.SuccessCount++
}

// RecordVideoFailure counts one failed download and keeps its cause keyed by
// video ID for the failure manifest.
func (rc *RunContext) RecordVideoFailure(videoID string, err error, url string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.FailureCount++
	rc.FailedVideos[videoID] = VideoFailure{Error: err.Error(), URL: url}
}

// RecordPageFailure keeps the cause of a failed page fetch. The page is
// skipped, not retried.
func (rc *RunContext) RecordPageFailure(page int, err error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.FailedPages[page] = err.Error()
}

// SetLastPage records the page number currently being attempted.
func (rc *RunContext) SetLastPage(page int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.LastPageReached = page
}

// FailureFor returns the recorded failure for a video, if any.
func (rc *RunContext) FailureFor(videoID string) (VideoFailure, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	failure, ok := rc.FailedVideos[videoID]
	return failure, ok
}

// FailedVideosSnapshot returns a copy of the failure manifest, safe to
// marshal while the pipeline is still recording.
func (rc *RunContext) FailedVideosSnapshot() map[string]VideoFailure {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	snapshot := make(map[string]VideoFailure, len(rc.FailedVideos))
	for id, failure := range rc.FailedVideos {
		snapshot[id] = failure
	}
	return snapshot
}

// Summary computes the run summary from the accumulators. The failed-page
// map is copied, not aliased.
func (rc *RunContext) Summary() RunSummary {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	summary := RunSummary{
		StartPage:       rc.StartPage,
		LastPageReached: rc.LastPageReached,
		SuccessCount:    rc.SuccessCount,
		FailureCount:    rc.FailureCount,
	}
	if len(rc.FailedPages) > 0 {
		summary.FailedPages = make(map[int]string, len(rc.FailedPages))
		for page, cause := range rc.FailedPages {
			summary.FailedPages[page] = cause
		}
	}
	return summary
}

// ItemStatus represents the terminal state of one archived video
type ItemStatus string

const (
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
)

// ArchiveRun is the persisted record of one archive run
type ArchiveRun struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	StartPage  int        `json:"start_page"`
	LastPage   int        `json:"last_page"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewArchiveRun creates a run record for persistence
func NewArchiveRun(id string, startPage int) *ArchiveRun {
	return &ArchiveRun{
		ID:        id,
		StartPage: startPage,
		StartedAt: time.Now(),
	}
}

// Finish folds the run accumulators into the record
func (r *ArchiveRun) Finish(rc *RunContext) {
	summary := rc.Summary()
	r.LastPage = summary.LastPageReached
	r.Succeeded = summary.SuccessCount
	r.Failed = summary.FailureCount
	now := time.Now()
	r.FinishedAt = &now
}

// ArchiveItem is the persisted outcome of one video within a run
type ArchiveItem struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	RunID        string     `json:"run_id" gorm:"index"`
	VideoID      string     `json:"video_id" gorm:"index"`
	Name         string     `json:"name"`
	SourceURL    string     `json:"source_url,omitempty"`
	FilePath     string     `json:"file_path,omitempty"`
	Size         int64      `json:"size,omitempty"`
	Status       ItemStatus `json:"status" gorm:"not null;index"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// NewArchiveItem creates an item record for one video in a run
func NewArchiveItem(runID, videoID, name string) *ArchiveItem {
	return &ArchiveItem{
		ID:      uuid.New().String(),
		RunID:   runID,
		VideoID: videoID,
		Name:    name,
	}
}

// MarkCompleted marks the item as archived to filePath
func (i *ArchiveItem) MarkCompleted(filePath string, size int64) {
	i.Status = ItemCompleted
	i.FilePath = filePath
	i.Size = size
}

// MarkFailed marks the item as failed with its cause
func (i *ArchiveItem) MarkFailed(err error, sourceURL string) {
	i.Status = ItemFailed
	i.ErrorMessage = err.Error()
	i.SourceURL = sourceURL
}
