package models

import "gorm.io/gorm"

// Image is a stored photo of a Post. Rows are owned by the post and are
// removed together with it.
type Image struct {
	gorm.Model
	PostID uint   `json:"postID" gorm:"not null;index"`
	URL    string `json:"url"`
}
