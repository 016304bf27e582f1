package services

import (
	"errors"
	"strings"
)

var (
	ErrPatientNotFound           = errors.New("patient not found")
	ErrPatientForbidden          = errors.New("not authorized for this patient")
	ErrNotEnoughPoints           = errors.New("not enough points")
	ErrInvalidGamificationAction = errors.New("invalid action_type")
	ErrQuestionRequired          = errors.New("question is required")
)

// ValidationError carries user-facing messages for a rejected input.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

type validationCollector struct {
	messages []string
}

func (collector *validationCollector) add(message string) {
	collector.messages = append(collector.messages, message)
}

func (collector *validationCollector) err() error {
	if len(collector.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: collector.messages}
}
