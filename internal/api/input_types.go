package api

import (
	"time"

	"github.com/terraincognita07/fetalrisk/internal/services"
)

type registrationPayload struct {
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	Password             string          `json:"password"`
	PasswordConfirmation string          `json:"password_confirmation"`
	Age                  formNumber[int] `json:"age"`
	GestationWeeks       formNumber[int] `json:"gestation_weeks"`
	Gravida              formNumber[int] `json:"gravida"`
	ContactNumber        string          `json:"contact_number"`
}

type registerRequest struct {
	User *registrationPayload `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type patientPayload struct {
	Name           *string         `json:"name"`
	Age            formNumber[int] `json:"age"`
	GestationWeeks formNumber[int] `json:"gestation_weeks"`
	Gravida        formNumber[int] `json:"gravida"`
	ContactNumber  *string         `json:"contact_number"`
	Email          *string         `json:"email"`
}

type patientRequest struct {
	Patient *patientPayload `json:"patient"`
}

type readingPayload struct {
	MaternalHR         formNumber[int]     `json:"maternal_hr"`
	SystolicBP         formNumber[int]     `json:"systolic_bp"`
	DiastolicBP        formNumber[int]     `json:"diastolic_bp"`
	FetalHR            formNumber[int]     `json:"fetal_hr"`
	FetalMovementCount formNumber[int]     `json:"fetal_movement_count"`
	SpO2               formNumber[int]     `json:"spo2"`
	Temperature        formNumber[float64] `json:"temperature"`
	RecordedAt         *time.Time          `json:"recorded_at"`
}

type readingRequest struct {
	Reading *readingPayload `json:"reading"`
}

type simulationRequest struct {
	Mode string `json:"mode"`
}

type explainRequest struct {
	Risk *services.RiskSnapshot `json:"risk"`
}

type healthSearchRequest struct {
	Question string `json:"question"`
}

type careCoachRequest struct {
	PatientID formNumber[uint] `json:"patient_id"`
}

type dietPlanRequest struct {
	PatientID formNumber[uint] `json:"patient_id"`
	Cuisine   string           `json:"cuisine"`
	Date      string           `json:"date"`
}

type gamificationRequest struct {
	ActionType string `json:"action_type"`
	RewardID   string `json:"reward_id"`
}

func (payload registrationPayload) toInput() services.RegistrationInput {
	return services.RegistrationInput{
		Name:                 payload.Name,
		Email:                payload.Email,
		Password:             payload.Password,
		PasswordConfirmation: payload.PasswordConfirmation,
		Age:                  payload.Age.ptr(),
		GestationWeeks:       payload.GestationWeeks.ptr(),
		Gravida:              payload.Gravida.ptr(),
		ContactNumber:        payload.ContactNumber,
	}
}

func (payload patientPayload) toInput() services.PatientInput {
	return services.PatientInput{
		Name:           payload.Name,
		Age:            payload.Age.ptr(),
		GestationWeeks: payload.GestationWeeks.ptr(),
		Gravida:        payload.Gravida.ptr(),
		ContactNumber:  payload.ContactNumber,
		Email:          payload.Email,
	}
}

func (payload readingPayload) toInput() services.ReadingInput {
	return services.ReadingInput{
		MaternalHR:         payload.MaternalHR.ptr(),
		SystolicBP:         payload.SystolicBP.ptr(),
		DiastolicBP:        payload.DiastolicBP.ptr(),
		FetalHR:            payload.FetalHR.ptr(),
		FetalMovementCount: payload.FetalMovementCount.ptr(),
		SpO2:               payload.SpO2.ptr(),
		Temperature:        payload.Temperature.ptr(),
		RecordedAt:         payload.RecordedAt,
	}
}
