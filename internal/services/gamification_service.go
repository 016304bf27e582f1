package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

type GamificationRepository interface {
	FindOrCreate(userID uint, patientID *uint) (models.Gamification, error)
	Save(gamification *models.Gamification) error
}

type GamificationPatientLookup interface {
	FindByUserID(userID uint) (models.Patient, error)
}

type GamificationAction struct {
	ActionType string
	RewardID   string
}

type GamificationService struct {
	ledgers  GamificationRepository
	patients GamificationPatientLookup
	location *time.Location
	now      func() time.Time
}

func NewGamificationService(ledgers GamificationRepository, patients GamificationPatientLookup, location *time.Location) *GamificationService {
	if location == nil {
		location = time.UTC
	}
	return &GamificationService{ledgers: ledgers, patients: patients, location: location, now: time.Now}
}

func (service *GamificationService) Load(userID uint) (models.Gamification, error) {
	var patientID *uint
	if patient, err := service.patients.FindByUserID(userID); err == nil {
		patientID = &patient.ID
	}

	ledger, err := service.ledgers.FindOrCreate(userID, patientID)
	if err != nil {
		return models.Gamification{}, fmt.Errorf("load gamification: %w", err)
	}
	return ledger, nil
}

// Apply runs one action against the user's ledger. A failed action leaves the
// stored ledger untouched.
func (service *GamificationService) Apply(userID uint, action GamificationAction) (models.Gamification, error) {
	ledger, err := service.Load(userID)
	if err != nil {
		return models.Gamification{}, err
	}

	now := service.now()
	switch strings.TrimSpace(action.ActionType) {
	case models.ActionRecordActivity:
		if !RecordActivity(&ledger, now, service.location) {
			return ledger, nil
		}
	case models.ActionClaimReward:
		if err := ClaimReward(&ledger, action.RewardID, now); err != nil {
			return ledger, err
		}
	case models.ActionResetStreak:
		ResetStreak(&ledger)
	default:
		return ledger, ErrInvalidGamificationAction
	}

	if err := service.ledgers.Save(&ledger); err != nil {
		return models.Gamification{}, fmt.Errorf("save gamification: %w", err)
	}
	return ledger, nil
}

// RecordActivity reports whether the ledger changed. Only the first activity
// of a calendar day counts; consecutive days extend the streak.
func RecordActivity(ledger *models.Gamification, now time.Time, location *time.Location) bool {
	today := DateAtLocation(now, location)
	if ledger.LastActiveAt != nil {
		lastDay := DateAtLocation(*ledger.LastActiveAt, location)
		if lastDay.Equal(today) {
			return false
		}
		if lastDay.Equal(today.AddDate(0, 0, -1)) {
			ledger.StreakCount++
		} else {
			ledger.StreakCount = 1
		}
	} else {
		ledger.StreakCount = 1
	}

	ledger.Points += models.ActivityPoints
	activeAt := now.UTC()
	ledger.LastActiveAt = &activeAt

	switch ledger.StreakCount {
	case 3:
		ledger.Badges = append(ledger.Badges, models.BadgeThreeDayStreak)
	case 7:
		ledger.Badges = append(ledger.Badges, models.BadgeSevenDayStreak)
	}
	return true
}

func ClaimReward(ledger *models.Gamification, rewardID string, now time.Time) error {
	if ledger.Points < models.RewardPointsCost {
		return ErrNotEnoughPoints
	}
	ledger.Points -= models.RewardPointsCost
	ledger.Badges = append(ledger.Badges, fmt.Sprintf("reward_%s_%d", strings.TrimSpace(rewardID), now.Unix()))
	return nil
}

func ResetStreak(ledger *models.Gamification) {
	ledger.StreakCount = 0
	ledger.LastActiveAt = nil
}
