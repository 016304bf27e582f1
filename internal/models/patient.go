package models

import "time"

// Patient is the monitored pregnancy profile. Each user owns exactly one.
type Patient struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name           string    `gorm:"not null" json:"name"`
	Age            *int      `json:"age"`
	GestationWeeks *int      `json:"gestation_weeks"`
	Gravida        *int      `json:"gravida"`
	ContactNumber  string    `json:"contact_number"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
