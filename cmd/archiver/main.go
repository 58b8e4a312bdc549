package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/vimeo-archiver/internal/app"
	"github.com/yourusername/vimeo-archiver/internal/domain"
	"github.com/yourusername/vimeo-archiver/internal/infrastructure"
	"github.com/yourusername/vimeo-archiver/pkg/logger"
)

var (
	configPath string
	startPage  int
	endPage    int
	until      string
	destDir    string

	rootCmd = &cobra.Command{
		Use:   "vimeo-archiver",
		Short: "Vimeo Archiver - Download your Vimeo video library to local disk",
		Long: `Pages through the authenticated account's video list, downloads the
largest rendition of every video released on or before the cutoff date, and
writes a summary plus a failure manifest when the run ends.`,
		Run: runArchive,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.Flags().IntVar(&startPage, "start-page", 0, "First page to fetch (default from config)")
	rootCmd.Flags().IntVar(&endPage, "end-page", 0, "Last page to fetch, 0 for unbounded")
	rootCmd.Flags().StringVar(&until, "until", "", "Only download videos released on or before this date (RFC3339 or YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&destDir, "dest", "", "Destination directory for downloaded files")
}

func runArchive(cmd *cobra.Command, args []string) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides
	if cmd.Flags().Changed("start-page") {
		config.Archive.StartPage = startPage
	}
	if cmd.Flags().Changed("end-page") {
		config.Archive.EndPage = endPage
	}
	if cmd.Flags().Changed("until") {
		config.Archive.LastAllowedDate = until
	}
	if cmd.Flags().Changed("dest") {
		config.Archive.DestinationDir = destDir
	}
	config.Archive.ClampPages()

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cutoff := config.Archive.Cutoff()
	log.Info("Starting archive run",
		zap.Int("start_page", config.Archive.StartPage),
		zap.Int("end_page", config.Archive.EndPage),
		zap.Time("cutoff", cutoff),
		zap.String("destination", config.Archive.DestinationDir))

	if err := os.MkdirAll(filepath.Dir(config.Archive.DatabasePath), 0755); err != nil {
		log.Fatal("Failed to create results directory", zap.Error(err))
	}

	repo, err := infrastructure.NewSQLiteArchiveRepository(config.Archive.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	runCtx := domain.NewRunContext(config.Archive.StartPage)
	runRecord := domain.NewArchiveRun(runCtx.RunID, runCtx.StartPage)
	if err := repo.CreateRun(runRecord); err != nil {
		log.Warn("Failed to record run start", zap.Error(err))
	}

	client := infrastructure.NewVimeoClient(&config.Vimeo, log)
	downloader := infrastructure.NewFileDownloader(config.Archive.DestinationDir, log)
	fetcher := app.NewPageFetcher(client, downloader, repo, cutoff, log)
	paginator := app.NewPaginator(fetcher, config.Archive.EndPage, log)
	reporter := app.NewReporter(config.Archive.ResultsDir, repo, runRecord, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Archive run panicked", zap.Any("panic", rec))
				reporter.Finalize(runCtx)
				os.Exit(1)
			}
		}()
		paginator.FetchAll(context.Background(), runCtx)
	}()

	select {
	case sig := <-quit:
		// An in-flight download is abandoned, not cancelled; its partial
		// file stays on disk.
		log.Warn("Received signal, finalizing", zap.String("signal", sig.String()))
		reporter.Finalize(runCtx)
		os.Exit(1)
	case <-done:
		reporter.Finalize(runCtx)
	}

	summary := runCtx.Summary()
	log.Info("Archive run complete",
		zap.Int("succeeded", summary.SuccessCount),
		zap.Int("failed", summary.FailureCount))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
