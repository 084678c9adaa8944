package model

// Filter is one blocklisted phrase, stored lower-cased.
type Filter struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Word string `gorm:"size:100;uniqueIndex;not null" json:"filter"`
}
