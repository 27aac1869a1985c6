package datastore

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Theodoscus/droneUI/internal/errors"
)

// FieldStore is the cross-run summary store of a field, one row per run.
type FieldStore struct {
	db   *gorm.DB
	path string
}

// OpenFieldStore opens (or creates) the field's summary store and migrates
// the field_summary table.
func OpenFieldStore(path string) (*FieldStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, errors.Newf("failed to open field summary store %s: %w", path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if err := db.AutoMigrate(&FieldSummary{}); err != nil {
		return nil, errors.Newf("failed to migrate field summary store %s: %w", path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return &FieldStore{db: db, path: path}, nil
}

// Upsert writes the summary row for its run, replacing an existing row with
// the same run id atomically.
func (fs *FieldStore) Upsert(summary *FieldSummary) error {
	err := fs.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}},
		UpdateAll: true,
	}).Create(summary).Error
	if err != nil {
		return errors.Newf("failed to upsert summary row for %s: %w", summary.RunID, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// Get returns the summary row for a run id, or gorm.ErrRecordNotFound.
func (fs *FieldStore) Get(runID string) (*FieldSummary, error) {
	var summary FieldSummary
	if err := fs.db.First(&summary, "run_id = ?", runID).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

// All returns every summary row ordered by run id, which is chronological
// because run ids embed the run timestamp.
func (fs *FieldStore) All() ([]FieldSummary, error) {
	var summaries []FieldSummary
	if err := fs.db.Order("run_id").Find(&summaries).Error; err != nil {
		return nil, errors.Newf("failed to read summary rows from %s: %w", fs.path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return summaries, nil
}

// Close closes the underlying database connection.
func (fs *FieldStore) Close() error {
	sqlDB, err := fs.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
