package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

func TestAuthorizePatient(t *testing.T) {
	service := NewPatientService(newMemoryPatientRepo(
		models.Patient{ID: 1, UserID: 10, Name: "Own"},
		models.Patient{ID: 2, UserID: 20, Name: "Other"},
	))

	if patient, err := service.AuthorizePatient(10, 1); err != nil || patient.Name != "Own" {
		t.Fatalf("AuthorizePatient(own) = %#v, %v", patient, err)
	}
	if _, err := service.AuthorizePatient(10, 2); !errors.Is(err, ErrPatientForbidden) {
		t.Fatalf("expected ErrPatientForbidden, got %v", err)
	}
	if _, err := service.AuthorizePatient(10, 99); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if _, err := service.FindOwned(10, 2); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected FindOwned to hide other patients, got %v", err)
	}
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	repo := newMemoryPatientRepo()
	service := NewPatientService(repo)

	created, isNew, err := service.Upsert(5, PatientInput{Name: stringPtr(" Mira "), Age: intPtr(31)})
	if err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	if !isNew || created.UserID != 5 || created.Name != "Mira" {
		t.Fatalf("unexpected create result %#v new=%v", created, isNew)
	}

	updated, isNew, err := service.Upsert(5, PatientInput{GestationWeeks: intPtr(30)})
	if err != nil {
		t.Fatalf("second Upsert() unexpected error: %v", err)
	}
	if isNew || updated.ID != created.ID {
		t.Fatalf("expected update of patient %d, got %#v new=%v", created.ID, updated, isNew)
	}
	if updated.Name != "Mira" || updated.Age == nil || *updated.Age != 31 || *updated.GestationWeeks != 30 {
		t.Fatalf("expected unchanged fields to survive, got %#v", updated)
	}
	if len(repo.patients) != 1 {
		t.Fatalf("expected a single patient per user, got %d", len(repo.patients))
	}
}

func TestUpsertValidates(t *testing.T) {
	service := NewPatientService(newMemoryPatientRepo())

	_, _, err := service.Upsert(5, PatientInput{Name: stringPtr(""), Email: stringPtr("not-an-email")})
	var validation *ValidationError
	if !errors.As(err, &validation) || len(validation.Messages) != 2 {
		t.Fatalf("expected two validation messages, got %v", err)
	}
}

func TestUpdateRejectsOtherUsersPatient(t *testing.T) {
	service := NewPatientService(newMemoryPatientRepo(models.Patient{ID: 1, UserID: 10, Name: "Own"}))

	if _, err := service.Update(11, 1, PatientInput{Name: stringPtr("Hijack")}); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestListForUserWithoutPatientIsEmpty(t *testing.T) {
	service := NewPatientService(newMemoryPatientRepo())

	patients, err := service.ListForUser(3)
	if err != nil || patients == nil || len(patients) != 0 {
		t.Fatalf("ListForUser() = %#v, %v", patients, err)
	}
}
