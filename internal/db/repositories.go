package db

import "gorm.io/gorm"

type Repositories struct {
	Users           *UserRepository
	Patients        *PatientRepository
	Readings        *ReadingRepository
	RiskEvaluations *RiskEvaluationRepository
	Gamifications   *GamificationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:           NewUserRepository(database),
		Patients:        NewPatientRepository(database),
		Readings:        NewReadingRepository(database),
		RiskEvaluations: NewRiskEvaluationRepository(database),
		Gamifications:   NewGamificationRepository(database),
	}
}
