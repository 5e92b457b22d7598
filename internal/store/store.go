package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/spokes/internal/models"
)

// UserStore is the persistence contract consumed by the bot core.
type UserStore interface {
	// GetOrCreate fetches the record for userID, synthesizing and
	// persisting a fresh one when none exists yet.
	GetOrCreate(ctx context.Context, userID string) (*models.UserRecord, error)
	// Upsert writes the record back, last writer wins on the user key.
	Upsert(ctx context.Context, rec *models.UserRecord) error
	// RecordDeliveryReceipt stores a delivery confirmation for diagnostics.
	RecordDeliveryReceipt(ctx context.Context, receipt *models.DeliveryReceipt) error
}

// ProfileFetcher supplies display names for newly seen users.
type ProfileFetcher interface {
	FetchFirstName(ctx context.Context, userID string) (string, error)
}

// GormStore persists user records in Postgres.
type GormStore struct {
	db       *gorm.DB
	profiles ProfileFetcher
}

// NewGormStore creates a GormStore. profiles may be nil, in which case
// new records are created without a first name.
func NewGormStore(db *gorm.DB, profiles ProfileFetcher) *GormStore {
	return &GormStore{db: db, profiles: profiles}
}

func (s *GormStore) GetOrCreate(ctx context.Context, userID string) (*models.UserRecord, error) {
	var rec models.UserRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}

	rec = models.UserRecord{
		UserID:        userID,
		IsSetup:       false,
		QuestionAsked: models.SlotNone,
	}
	if s.profiles != nil {
		name, err := s.profiles.FetchFirstName(ctx, userID)
		if err != nil {
			// A missing first name only degrades the greeting.
			log.Printf("[Store] fetch profile for %s: %v", userID, err)
		} else {
			rec.FirstName = name
		}
	}

	if err := s.Upsert(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) Upsert(ctx context.Context, rec *models.UserRecord) error {
	db := s.db.WithContext(ctx)

	var err error
	if rec.ID == uuid.Nil {
		// First write for this user. Concurrent first messages race here;
		// last writer wins on the user_id key.
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(rec).Error
	} else {
		err = db.Save(rec).Error
	}
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", rec.UserID, err)
	}
	return nil
}

func (s *GormStore) RecordDeliveryReceipt(ctx context.Context, receipt *models.DeliveryReceipt) error {
	if err := s.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return fmt.Errorf("record delivery receipt for %s: %w", receipt.UserID, err)
	}
	return nil
}
