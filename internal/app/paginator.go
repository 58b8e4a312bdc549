package app

import (
	"context"

	"github.com/yourusername/vimeo-archiver/internal/domain"
	"go.uber.org/zap"
)

// PageSource processes one page and reports whether pagination should
// continue. Implemented by PageFetcher.
type PageSource interface {
	FetchPage(ctx context.Context, run *domain.RunContext, page int) (bool, error)
}

// Paginator drives the page loop across the configured page range. Per-page
// errors are recorded in the run context and the loop moves on to the next
// page; FetchAll never fails as a whole.
type Paginator struct {
	source  PageSource
	endPage int // 0 = unbounded
	logger  *zap.Logger
}

// NewPaginator creates a new paginator
func NewPaginator(source PageSource, endPage int, logger *zap.Logger) *Paginator {
	return &Paginator{
		source:  source,
		endPage: endPage,
		logger:  logger,
	}
}

// FetchAll iterates pages from the run's start page upward until the end
// page, an exhausted video list, or the cutoff date stops it. The last page
// attempted is tracked in the run context for the final report.
func (p *Paginator) FetchAll(ctx context.Context, run *domain.RunContext) {
	for page := run.StartPage; p.endPage == 0 || page <= p.endPage; page++ {
		run.SetLastPage(page)

		more, err := p.source.FetchPage(ctx, run, page)
		if err != nil {
			run.RecordPageFailure(page, err)
			p.logger.Warn("Page fetch failed, skipping to next page",
				zap.Int("page", page),
				zap.Error(err))
			continue
		}
		if !more {
			break
		}
	}

	summary := run.Summary()
	p.logger.Info("Pagination finished",
		zap.Int("last_page", summary.LastPageReached),
		zap.Int("succeeded", summary.SuccessCount),
		zap.Int("failed", summary.FailureCount),
		zap.Int("failed_pages", len(summary.FailedPages)))
}
