package models

type City struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

type District struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	CityID uint   `json:"cityID" gorm:"index"`
	Name   string `json:"name"`
}
