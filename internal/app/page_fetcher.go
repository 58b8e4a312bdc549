package app

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/vimeo-archiver/internal/domain"
	"go.uber.org/zap"
)

// ErrNoDownloadLink is recorded for videos the API returns without any
// download renditions.
var ErrNoDownloadLink = errors.New("no download link")

// PageFetcher processes one page of the video list: it applies the cutoff
// date, picks the largest rendition per video, and downloads the videos
// strictly one at a time.
type PageFetcher struct {
	client     domain.VideoLister
	downloader domain.Downloader
	repo       domain.ArchiveRepository
	cutoff     time.Time
	logger     *zap.Logger
}

// NewPageFetcher creates a new page fetcher. repo may be nil to disable
// archive-history persistence.
func NewPageFetcher(
	client domain.VideoLister,
	downloader domain.Downloader,
	repo domain.ArchiveRepository,
	cutoff time.Time,
	logger *zap.Logger,
) *PageFetcher {
	return &PageFetcher{
		client:     client,
		downloader: downloader,
		repo:       repo,
		cutoff:     cutoff,
		logger:     logger,
	}
}

// FetchPage fetches and processes one page. It returns whether a subsequent
// page should be fetched; an API error is returned to the caller unprocessed.
//
// The cutoff is hard: the first video released after the cutoff stops the
// page immediately, skipping the remaining videos on it, and ends pagination.
// The ascending sort is requested from the API but not verified here.
func (f *PageFetcher) FetchPage(ctx context.Context, run *domain.RunContext, page int) (bool, error) {
	videoPage, err := f.client.FetchPage(ctx, page)
	if err != nil {
		return false, err
	}

	f.logger.Info("Processing page",
		zap.Int("page", page),
		zap.Int("videos", len(videoPage.Data)))

	for i := range videoPage.Data {
		video := &videoPage.Data[i]

		if video.ReleaseTime.After(f.cutoff) {
			f.logger.Info("Reached cutoff date, stopping",
				zap.String("video_id", video.ID()),
				zap.String("name", video.Name),
				zap.Time("release_time", video.ReleaseTime),
				zap.Time("cutoff", f.cutoff))
			return false, nil
		}

		rendition, ok := video.BestRendition()
		if !ok {
			run.RecordVideoFailure(video.ID(), ErrNoDownloadLink, "")
			f.recordItem(run, video, "", func(item *domain.ArchiveItem) {
				item.MarkFailed(ErrNoDownloadLink, "")
			})
			f.logger.Warn("Video has no download renditions",
				zap.String("video_id", video.ID()),
				zap.String("name", video.Name))
			continue
		}

		fileName := video.FileName(rendition)
		if f.downloader.Download(ctx, run, fileName, rendition.Link, video.ID(), rendition.SizeShort) {
			f.recordItem(run, video, fileName, func(item *domain.ArchiveItem) {
				item.MarkCompleted(fileName, rendition.Size)
			})
		} else {
			failure, _ := run.FailureFor(video.ID())
			f.recordItem(run, video, fileName, func(item *domain.ArchiveItem) {
				item.MarkFailed(errors.New(failure.Error), rendition.Link)
			})
		}
	}

	return videoPage.HasNext(), nil
}

// recordItem persists one video outcome into the archive history. Persistence
// failures are logged and do not affect the run.
func (f *PageFetcher) recordItem(run *domain.RunContext, video *domain.Video, fileName string, mark func(*domain.ArchiveItem)) {
	if f.repo == nil {
		return
	}
	item := domain.NewArchiveItem(run.RunID, video.ID(), video.Name)
	mark(item)
	if err := f.repo.CreateItem(item); err != nil {
		f.logger.Warn("Failed to record archive item",
			zap.String("video_id", video.ID()),
			zap.Error(err))
	}
}
