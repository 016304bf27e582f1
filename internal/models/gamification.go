package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionRecordActivity = "record_activity"
	ActionClaimReward    = "claim_reward"
	ActionResetStreak    = "reset_streak"

	ActivityPoints   = 10
	RewardPointsCost = 50

	BadgeThreeDayStreak = "3_day_streak"
	BadgeSevenDayStreak = "7_day_streak"
)

type Gamification struct {
	ID           uint                        `gorm:"primaryKey" json:"-"`
	UserID       uint                        `gorm:"not null;uniqueIndex:uidx_gamification_user_patient" json:"-"`
	PatientID    *uint                       `gorm:"uniqueIndex:uidx_gamification_user_patient" json:"-"`
	StreakCount  int                         `gorm:"not null;default:0" json:"streak_count"`
	Points       int                         `gorm:"not null;default:0" json:"points"`
	Badges       datatypes.JSONSlice[string] `json:"badges"`
	LastActiveAt *time.Time                  `json:"last_active_at"`
	CreatedAt    time.Time                   `json:"-"`
	UpdatedAt    time.Time                   `json:"-"`
}
