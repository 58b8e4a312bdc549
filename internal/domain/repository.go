package domain

import "context"

// VideoLister defines the interface for fetching pages of the remote
// video list
type VideoLister interface {
	// FetchPage fetches one page of the account's video list
	FetchPage(ctx context.Context, page int) (*VideoPage, error)
}

// Downloader defines the interface for streaming one rendition to disk.
// It reports the outcome into the run context and returns whether the
// download succeeded; it never returns an error.
type Downloader interface {
	Download(ctx context.Context, run *RunContext, fileName, url, videoID, sizeHint string) bool
}

// ArchiveRepository defines the interface for archive-history persistence
type ArchiveRepository interface {
	// CreateRun creates a new run record
	CreateRun(run *ArchiveRun) error

	// UpdateRun updates an existing run record
	UpdateRun(run *ArchiveRun) error

	// CreateItem creates a new item record
	CreateItem(item *ArchiveItem) error

	// FindRun finds a run by ID
	FindRun(id string) (*ArchiveRun, error)

	// FindItemsByRun finds all items belonging to a run
	FindItemsByRun(runID string) ([]*ArchiveItem, error)

	// FindItemsByStatus finds items by terminal status
	FindItemsByStatus(status ItemStatus) ([]*ArchiveItem, error)

	// CountByStatus returns the number of items in a run with the given status
	CountByStatus(runID string, status ItemStatus) (int64, error)
}
