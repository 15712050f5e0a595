package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Account     string `json:"account" gorm:"uniqueIndex"`
	Password    string `json:"-"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin

	Posts     []Post     `json:"posts,omitempty" gorm:"foreignKey:UserID"`
	Schedules []Schedule `json:"schedules,omitempty" gorm:"foreignKey:UserID"`
}
