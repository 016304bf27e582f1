package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	Age            *int      `json:"age"`
	GestationWeeks *int      `json:"gestation_weeks"`
	Gravida        *int      `json:"gravida"`
	ContactNumber  string    `json:"contact_number"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
