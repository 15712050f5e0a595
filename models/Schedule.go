package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is a confirmed reservation of a Post for the inclusive date
// interval [FromDate, ToDate]. There is no pending state: a row exists only
// after booking admission succeeded. The two ratings are attached after the
// stay and stay nil until then.
type Schedule struct {
	gorm.Model
	PostID   uint      `json:"postID" gorm:"not null;index"`
	UserID   uint      `json:"userID" gorm:"not null;index"`
	FromDate time.Time `json:"fromDate" gorm:"type:date"`
	ToDate   time.Time `json:"toDate" gorm:"type:date"`

	// StayRating scores the property, HostRating the counterparty. 1..5.
	StayRating *int `json:"stayRating"`
	HostRating *int `json:"hostRating"`

	Post *Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
