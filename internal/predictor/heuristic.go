package predictor

import (
	"context"
	"strings"

	"github.com/terraincognita07/fetalrisk/internal/models"
)

const heuristicModelVersion = "heuristic_v1"

// HeuristicPredictor scores vitals against fixed clinical thresholds. It needs
// no external service.
type HeuristicPredictor struct{}

type heuristicRule struct {
	weight  float64
	reason  string
	matches func(Payload) bool
}

var heuristicRules = []heuristicRule{
	{
		weight:  0.4,
		reason:  "severe hypertension",
		matches: func(p Payload) bool { return p.SystolicBP >= 160 || p.DiastolicBP >= 110 },
	},
	{
		weight:  0.3,
		reason:  "abnormal fetal heart rate",
		matches: func(p Payload) bool { return p.FetalHR < 110 || p.FetalHR > 170 },
	},
	{
		weight:  0.2,
		reason:  "low oxygen saturation",
		matches: func(p Payload) bool { return p.SpO2 < 92 },
	},
	{
		weight:  0.15,
		reason:  "fever",
		matches: func(p Payload) bool { return p.Temperature >= 38.5 },
	},
}

func (HeuristicPredictor) Predict(_ context.Context, payload Payload) (Result, error) {
	total := 0.0
	reasons := make([]string, 0, len(heuristicRules))
	for _, rule := range heuristicRules {
		if rule.matches(payload) {
			total += rule.weight
			reasons = append(reasons, rule.reason)
		}
	}

	var (
		level string
		score float64
	)
	switch {
	case total < 0.25:
		level, score = models.RiskLevelNormal, 0.15
	case total >= 0.6:
		level, score = models.RiskLevelCritical, 0.85
	default:
		level, score = models.RiskLevelWarning, 0.45
	}

	reason := "Vitals within normal clinical limits"
	if len(reasons) > 0 {
		reason = "Heuristic flags: " + strings.Join(reasons, ", ")
	}

	return Result{
		RiskLevel:    level,
		RiskScore:    &score,
		Reason:       reason,
		ModelVersion: heuristicModelVersion,
	}, nil
}
