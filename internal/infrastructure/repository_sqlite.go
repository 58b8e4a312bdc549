package infrastructure

import (
	"fmt"

	"github.com/yourusername/vimeo-archiver/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteArchiveRepository implements ArchiveRepository using SQLite
type SQLiteArchiveRepository struct {
	db *gorm.DB
}

// NewSQLiteArchiveRepository creates a new SQLite repository
func NewSQLiteArchiveRepository(dbPath string) (*SQLiteArchiveRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate the schema for ArchiveRun and ArchiveItem
	if err := db.AutoMigrate(&domain.ArchiveRun{}, &domain.ArchiveItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteArchiveRepository{db: db}, nil
}

// CreateRun creates a new run record
func (r *SQLiteArchiveRepository) CreateRun(run *domain.ArchiveRun) error {
	return r.db.Create(run).Error
}

// UpdateRun updates an existing run record
func (r *SQLiteArchiveRepository) UpdateRun(run *domain.ArchiveRun) error {
	return r.db.Save(run).Error
}

// CreateItem creates a new item record
func (r *SQLiteArchiveRepository) CreateItem(item *domain.ArchiveItem) error {
	return r.db.Create(item).Error
}

// FindRun finds a run by ID
func (r *SQLiteArchiveRepository) FindRun(id string) (*domain.ArchiveRun, error) {
	var run domain.ArchiveRun
	err := r.db.First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindItemsByRun finds all items belonging to a run, oldest first
func (r *SQLiteArchiveRepository) FindItemsByRun(runID string) ([]*domain.ArchiveItem, error) {
	var items []*domain.ArchiveItem
	err := r.db.Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindItemsByStatus finds items by terminal status
func (r *SQLiteArchiveRepository) FindItemsByStatus(status domain.ItemStatus) ([]*domain.ArchiveItem, error) {
	var items []*domain.ArchiveItem
	err := r.db.Where("status = ?", status).Find(&items).Error
	return items, err
}

// CountByStatus returns the number of items in a run with the given status
func (r *SQLiteArchiveRepository) CountByStatus(runID string, status domain.ItemStatus) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ArchiveItem{}).
		Where("run_id = ? AND status = ?", runID, status).
		Count(&count).Error
	return count, err
}

// Close closes the database connection
func (r *SQLiteArchiveRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
