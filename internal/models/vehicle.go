package models

import "time"

// Vehicle is owned by the fleet CRUD screens; only the fields needed to
// join and search fuel distributions live here.
type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Plate     string    `gorm:"size:32;uniqueIndex;not null" json:"matricula"`
	Brand     string    `gorm:"size:64" json:"marca"`
	Model     string    `gorm:"size:64" json:"modelo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
