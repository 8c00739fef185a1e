package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: record not found")

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := getDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.IntegrationSetting{},
		&models.Submission{},
		&models.TokenRecord{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func getDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Health checks database connectivity.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Integration setting operations

// ActiveIntegrationSetting returns the most recently created active settings
// row for the given integration type.
func (s *Store) ActiveIntegrationSetting(
	integrationType string,
) (*models.IntegrationSetting, error) {
	var setting models.IntegrationSetting
	err := s.db.Where("type = ? AND is_active = ?", integrationType, true).
		Order("created_at DESC").
		First(&setting).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// CreateIntegrationSetting inserts a new settings row.
func (s *Store) CreateIntegrationSetting(setting *models.IntegrationSetting) error {
	return s.db.Create(setting).Error
}

// Token audit operations

// CreateTokenRecord appends a token audit row.
func (s *Store) CreateTokenRecord(rec *models.TokenRecord) error {
	return s.db.Create(rec).Error
}

// Submission operations

func (s *Store) CreateSubmission(sub *models.Submission) error {
	return s.db.Create(sub).Error
}

func (s *Store) GetSubmissionByID(id string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Store) GetSubmissionByUID(submissionUID string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.Where("submission_uid = ?", submissionUID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// UpdateSubmission saves all fields of an existing submission row.
func (s *Store) UpdateSubmission(sub *models.Submission) error {
	return s.db.Save(sub).Error
}

// ListSubmissions returns submissions, newest first, optionally filtered by
// status.
func (s *Store) ListSubmissions(
	status models.Status,
	limit, offset int,
) ([]models.Submission, error) {
	q := s.db.Model(&models.Submission{}).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var subs []models.Submission
	if err := q.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListSubmissionsByStatusOlderThan returns up to limit submissions in the
// given status whose last status change is before cutoff. Used by the status
// poller to avoid re-polling rows it just touched.
func (s *Store) ListSubmissionsByStatusOlderThan(
	status models.Status,
	cutoff time.Time,
	limit int,
) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("status = ? AND status_changed_at < ?", status, cutoff).
		Order("status_changed_at ASC").
		Limit(limit).
		Find(&subs).
		Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// CountSubmissionsByStatus counts submissions in a given status.
func (s *Store) CountSubmissionsByStatus(status string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Submission{}).
		Where("status = ?", status).
		Count(&count).
		Error
	return count, err
}
