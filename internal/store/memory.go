package store

import (
	"context"
	"sync"

	"github.com/example/spokes/internal/models"
)

// MemoryStore is an in-memory UserStore used by tests and as the
// fallback when no database is configured.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]models.UserRecord
	receipts []models.DeliveryReceipt
	profiles ProfileFetcher
	err      error
}

// NewMemoryStore instantiates the in-memory store. profiles may be nil.
func NewMemoryStore(profiles ProfileFetcher) *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.UserRecord),
		profiles: profiles,
	}
}

// WithError configures the store to return the provided error for
// subsequent calls.
func (m *MemoryStore) WithError(err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, userID string) (*models.UserRecord, error) {
	m.mu.Lock()
	if m.err != nil {
		defer m.mu.Unlock()
		return nil, m.err
	}
	if rec, ok := m.users[userID]; ok {
		defer m.mu.Unlock()
		copied := rec
		return &copied, nil
	}
	m.mu.Unlock()

	rec := models.UserRecord{
		UserID:        userID,
		IsSetup:       false,
		QuestionAsked: models.SlotNone,
	}
	if m.profiles != nil {
		if name, err := m.profiles.FetchFirstName(ctx, userID); err == nil {
			rec.FirstName = name
		}
	}

	if err := m.Upsert(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *MemoryStore) Upsert(_ context.Context, rec *models.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.users[rec.UserID] = *rec
	return nil
}

func (m *MemoryStore) RecordDeliveryReceipt(_ context.Context, receipt *models.DeliveryReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.receipts = append(m.receipts, *receipt)
	return nil
}

// User returns a copy of the stored record for userID, if any.
func (m *MemoryStore) User(userID string) (models.UserRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.users[userID]
	return rec, ok
}

// Receipts returns the delivery receipts recorded so far.
func (m *MemoryStore) Receipts() []models.DeliveryReceipt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.DeliveryReceipt, len(m.receipts))
	copy(out, m.receipts)
	return out
}
