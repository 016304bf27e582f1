package predictor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

const (
	FallbackRiskLevel    = models.RiskLevelNormal
	FallbackRiskScore    = 0.1
	FallbackReason       = "ML service unavailable"
	FallbackModelVersion = "fallback"
)

var (
	ErrInvalidRiskLevel = errors.New("predictor returned an invalid risk_level")
	ErrInvalidRiskScore = errors.New("predictor returned a risk_score outside [0, 1]")
)

// Result is the decoded predictor response. Only RiskLevel is mandatory.
type Result struct {
	RiskLevel                  string    `json:"risk_level"`
	RiskScore                  *float64  `json:"risk_score"`
	Reason                     string    `json:"reason"`
	ModelVersion               string    `json:"model_version"`
	MLRiskLevel                *Level    `json:"ml_risk_level"`
	MLClassProbabilities       []float64 `json:"ml_class_probabilities"`
	MLLogRegRiskLevel          *Level    `json:"ml_logreg_risk_level"`
	MLLogRegClassProbabilities []float64 `json:"ml_logreg_class_probabilities"`
}

func FallbackResult() Result {
	score := FallbackRiskScore
	return Result{
		RiskLevel:    FallbackRiskLevel,
		RiskScore:    &score,
		Reason:       FallbackReason,
		ModelVersion: FallbackModelVersion,
	}
}

func (result Result) Validate() error {
	if !models.IsRiskLevel(result.RiskLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidRiskLevel, result.RiskLevel)
	}
	if result.RiskScore != nil && (*result.RiskScore < 0 || *result.RiskScore > 1) {
		return fmt.Errorf("%w: %v", ErrInvalidRiskScore, *result.RiskScore)
	}
	return nil
}

func (result Result) ModelDetails() models.ModelDetails {
	return models.ModelDetails{
		MLRiskLevel:                result.MLRiskLevel.stringPtr(),
		MLClassProbabilities:       result.MLClassProbabilities,
		MLLogRegRiskLevel:          result.MLLogRegRiskLevel.stringPtr(),
		MLLogRegClassProbabilities: result.MLLogRegClassProbabilities,
	}
}

func decodeResult(raw []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(bytes.TrimSpace(raw), &result); err != nil {
		return Result{}, fmt.Errorf("decode predictor response: %w", err)
	}
	result.RiskLevel = strings.ToLower(strings.TrimSpace(result.RiskLevel))
	if err := result.Validate(); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Level is a secondary model output. Models report either a level name or a
// class index (0 normal, 1 warning, 2 critical).
type Level string

var classIndexLevels = []string{models.RiskLevelNormal, models.RiskLevelWarning, models.RiskLevelCritical}

func (level *Level) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		*level = Level(strings.ToLower(strings.TrimSpace(text)))
		return nil
	}

	index, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("level must be a string or class index: %s", trimmed)
	}
	position := int(index)
	if float64(position) == index && position >= 0 && position < len(classIndexLevels) {
		*level = Level(classIndexLevels[position])
		return nil
	}
	*level = Level(strconv.FormatFloat(index, 'f', -1, 64))
	return nil
}

func (level *Level) stringPtr() *string {
	if level == nil || *level == "" {
		return nil
	}
	value := string(*level)
	return &value
}
