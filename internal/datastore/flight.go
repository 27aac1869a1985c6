package datastore

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Theodoscus/droneUI/internal/errors"
)

// FlightStore is a run's sqlite log store. It is owned exclusively by the
// run's pipeline while the run is active; readers must only open completed
// runs.
type FlightStore struct {
	db   *gorm.DB
	path string
}

// OpenFlightStore opens (or creates) a run's log store and migrates the
// flight_results table.
func OpenFlightStore(path string) (*FlightStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, errors.Newf("failed to open flight log store %s: %w", path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if err := db.AutoMigrate(&FlightResult{}); err != nil {
		return nil, errors.Newf("failed to migrate flight log store %s: %w", path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return &FlightStore{db: db, path: path}, nil
}

// SaveBatch appends a batch of detection rows in a single transaction.
// An empty batch is a no-op.
func (fs *FlightStore) SaveBatch(results []FlightResult) error {
	if len(results) == 0 {
		return nil
	}
	if err := fs.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(results, 200).Error
	}); err != nil {
		return errors.Newf("failed to append %d detection rows to %s: %w", len(results), fs.path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// Results returns all detection rows in append order.
func (fs *FlightStore) Results() ([]FlightResult, error) {
	var results []FlightResult
	if err := fs.db.Order("id").Find(&results).Error; err != nil {
		return nil, errors.Newf("failed to read detection rows from %s: %w", fs.path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return results, nil
}

// FlightDuration returns the stored flight duration. The value is constant
// across a run, so the first row suffices; a run with no rows reports
// "Unknown".
func (fs *FlightStore) FlightDuration() (string, error) {
	var result FlightResult
	err := fs.db.Order("id").Limit(1).Find(&result).Error
	if err != nil {
		return "", errors.Newf("failed to read flight duration from %s: %w", fs.path, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	if result.ID == 0 || result.FlightDuration == "" {
		return "Unknown", nil
	}
	return result.FlightDuration, nil
}

// Close closes the underlying database connection.
func (fs *FlightStore) Close() error {
	sqlDB, err := fs.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newGormLogger configures and returns a new GORM logger instance.
func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      gormlogger.Warn,
			Colorful:      false,
		},
	)
}
