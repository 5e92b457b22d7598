package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides shared columns for all tables.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UUIDs are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Slot names one of the onboarding preference fields awaiting a value.
type Slot string

const (
	SlotHomeAddress      Slot = "homeAddress"
	SlotWorkAddress      Slot = "workAddress"
	SlotMorningAlertTime Slot = "morningAlertTime"
	SlotEveningAlertTime Slot = "eveningAlertTime"

	// SlotNone means no question is pending.
	SlotNone Slot = ""
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Prefs holds the four onboarding preferences. Address slots are pointers
// so an unfilled slot is distinguishable from one holding zero values;
// alert times are raw strings captured verbatim from the user's reply.
type Prefs struct {
	HomeAddress      *Coordinates `json:"home_address,omitempty"`
	WorkAddress      *Coordinates `json:"work_address,omitempty"`
	MorningAlertTime string       `json:"morning_alert_time,omitempty"`
	EveningAlertTime string       `json:"evening_alert_time,omitempty"`
}

// UserRecord tracks one messaging-platform user. QuestionAsked is the slot
// currently pending an answer; it is SlotNone once setup is complete.
type UserRecord struct {
	BaseModel
	UserID        string `gorm:"uniqueIndex" json:"user_id"`
	FirstName     string `json:"first_name"`
	IsSetup       bool   `json:"is_setup"`
	QuestionAsked Slot   `json:"question_asked"`
	Prefs         Prefs  `gorm:"serializer:json" json:"prefs"`
}
