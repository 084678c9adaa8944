package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeHug     = "hug"
	NotificationTypeMessage = "message"
)

// Notification is append-only; reads are driven by the per-user LastRead
// watermark rather than a per-row flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ForID     uint      `gorm:"not null;index" json:"for_id"`
	For       *User     `gorm:"foreignKey:ForID;constraint:OnDelete:CASCADE" json:"-"`
	FromID    uint      `gorm:"not null" json:"from_id"`
	From      *User     `gorm:"foreignKey:FromID;constraint:OnDelete:CASCADE" json:"from,omitempty"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Text      string    `gorm:"size:255;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"date"`
}

// NotificationSub is one device's push subscription. A user may hold
// several (multi-device).
type NotificationSub struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Endpoint string    `gorm:"type:text;not null" json:"endpoint"`
	// Data is the opaque subscription payload handed over by the browser.
	Data      datatypes.JSON `json:"subscription_data"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (s *NotificationSub) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
