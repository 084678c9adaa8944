package model

import "time"

// Thread groups the direct messages between two users. The deleted flags
// are stored per participant: a thread row is purged only once both sides
// asked for deletion.
type Thread struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	User1ID      uint      `gorm:"column:user_1_id;not null;index" json:"user_1_id"`
	User1        User      `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE" json:"user_1,omitempty"`
	User2ID      uint      `gorm:"column:user_2_id;not null;index" json:"user_2_id"`
	User2        User      `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE" json:"user_2,omitempty"`
	User1Deleted bool      `gorm:"column:user_1_deleted;default:false" json:"-"`
	User2Deleted bool      `gorm:"column:user_2_deleted;default:false" json:"-"`
	Messages     []Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// HasParticipant reports whether userID is one of the two thread parties.
func (t *Thread) HasParticipant(userID uint) bool {
	return t.User1ID == userID || t.User2ID == userID
}

type Message struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FromID   uint   `gorm:"not null;index" json:"from_id"`
	From     User   `gorm:"foreignKey:FromID;constraint:OnDelete:CASCADE" json:"from,omitempty"`
	ForID    uint   `gorm:"not null;index" json:"for_id"`
	For      User   `gorm:"foreignKey:ForID;constraint:OnDelete:CASCADE" json:"for,omitempty"`
	ThreadID uint   `gorm:"not null;index" json:"thread_id"`
	Text     string `gorm:"size:480;not null" json:"text"`
	// Soft-delete pair: a message is hidden from the side whose flag is
	// set and purged entirely once both flags are set.
	FromDeleted bool      `gorm:"default:false" json:"-"`
	ForDeleted  bool      `gorm:"default:false" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"date"`
}
