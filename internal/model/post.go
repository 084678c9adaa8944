package model

import (
	"time"

	"gorm.io/datatypes"
)

type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Text   string `gorm:"size:480;not null" json:"text"`
	// SentHugs lists the ids of users who already hugged this post. A user
	// id appears at most once.
	SentHugs  datatypes.JSONSlice[uint] `json:"sent_hugs"`
	GivenHugs int                       `gorm:"default:0" json:"given_hugs"`
	CreatedAt time.Time                 `gorm:"autoCreateTime" json:"date"`

	// OpenReport is derived at read time: true iff an un-closed report
	// references this post. Never stored.
	OpenReport bool `gorm:"->;-:migration" json:"open_report"`
}

// HuggedBy reports whether userID already hugged this post.
func (p *Post) HuggedBy(userID uint) bool {
	for _, id := range p.SentHugs {
		if id == userID {
			return true
		}
	}
	return false
}
