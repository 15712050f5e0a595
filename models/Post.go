package models

import "gorm.io/gorm"

type PostStatus int

const (
	PostStatusDraft     PostStatus = 0
	PostStatusPublished PostStatus = 1
)

type Post struct {
	gorm.Model
	UserID      uint       `json:"userID" gorm:"index"`
	Title       string     `json:"title"`
	Description string     `json:"description" gorm:"type:text"`
	Address     string     `json:"address"`
	City        string     `json:"city" gorm:"index"`
	District    string     `json:"district"`
	Area        float64    `json:"area"`
	Price       float64    `json:"price"`
	Bedroom     int        `json:"bedroom"`
	Bathroom    int        `json:"bathroom"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Status      PostStatus `json:"status" gorm:"default:0;index"`

	// Utilities. The legacy schema stored these as 0/1 columns.
	AirCondition        bool `json:"airCondition"`
	WC                  bool `json:"wc"`
	Garage              bool `json:"garage"`
	ElectricWaterHeater bool `json:"electricWaterHeater"`

	Images    []Image    `json:"images" gorm:"foreignKey:PostID"`
	Schedules []Schedule `json:"schedules" gorm:"foreignKey:PostID"`
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
