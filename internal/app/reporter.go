package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/yourusername/vimeo-archiver/internal/domain"
	"go.uber.org/zap"
)

// Reporter writes the end-of-run summary and failure manifest into a
// timestamped results directory. Finalize may be reached from normal
// completion, an interrupt, or a pipeline panic; a latch makes whichever
// arrives first win and the rest no-ops.
type Reporter struct {
	resultsDir string
	repo       domain.ArchiveRepository
	run        *domain.ArchiveRun
	logger     *zap.Logger
	once       sync.Once
}

// NewReporter creates a reporter writing under resultsDir. repo and run may
// be nil to disable archive-history persistence.
func NewReporter(resultsDir string, repo domain.ArchiveRepository, run *domain.ArchiveRun, logger *zap.Logger) *Reporter {
	return &Reporter{
		resultsDir: resultsDir,
		repo:       repo,
		run:        run,
		logger:     logger,
	}
}

// Finalize writes overall.json and FailedVideos.json into
// resultsDir/<unix-timestamp>/ and closes out the persisted run record.
// Write failures are logged, never propagated.
func (r *Reporter) Finalize(run *domain.RunContext) {
	r.once.Do(func() { r.finalize(run) })
}

func (r *Reporter) finalize(run *domain.RunContext) {
	outDir := filepath.Join(r.resultsDir, strconv.FormatInt(time.Now().Unix(), 10))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		r.logger.Error("Failed to create results directory",
			zap.String("dir", outDir),
			zap.Error(err))
		return
	}

	// Snapshot the accumulators: the signal path can finalize while a
	// download is still recording.
	summary := run.Summary()
	r.writeJSON(filepath.Join(outDir, "overall.json"), summary)
	r.writeJSON(filepath.Join(outDir, "FailedVideos.json"), run.FailedVideosSnapshot())

	if r.repo != nil && r.run != nil {
		r.run.Finish(run)
		if err := r.repo.UpdateRun(r.run); err != nil {
			r.logger.Warn("Failed to persist run record", zap.Error(err))
		}
	}

	r.logger.Info("Results written",
		zap.String("dir", outDir),
		zap.Int("succeeded", summary.SuccessCount),
		zap.Int("failed", summary.FailureCount))
}

func (r *Reporter) writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.logger.Error("Failed to encode report", zap.String("file", path), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		r.logger.Error("Failed to write report", zap.String("file", path), zap.Error(err))
	}
}
