package model

import "time"

const (
	ReportTypePost = "Post"
	ReportTypeUser = "User"
)

type Report struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"size:10;not null" json:"type"`
	// UserID is the reported user; PostID is set only for post reports.
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	PostID     *uint     `gorm:"index" json:"post_id,omitempty"`
	ReporterID uint      `gorm:"not null" json:"reporter"`
	Reason     string    `gorm:"size:120;not null" json:"report_reason"`
	Dismissed  bool      `gorm:"default:false" json:"dismissed"`
	Closed     bool      `gorm:"default:false" json:"closed"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"date"`
}
