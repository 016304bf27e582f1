// Package predictor turns a vitals snapshot into a risk classification through
// one of several interchangeable backends.
package predictor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/terraincognita07/fetalrisk/internal/config"
	"github.com/terraincognita07/fetalrisk/internal/resilient"
	"go.uber.org/zap"
)

const collaboratorName = "predictor"

type Predictor interface {
	Predict(ctx context.Context, payload Payload) (Result, error)
}

// New builds the backend selected by cfg.Mode.
func New(cfg config.PredictorConfig, client *http.Client) (Predictor, error) {
	switch cfg.Mode {
	case config.PredictorModeHTTP:
		return NewHTTPPredictor(cfg.URL, client), nil
	case config.PredictorModeScript:
		return NewScriptPredictor(ParseScriptCommand(cfg.ScriptCommand))
	case config.PredictorModeHeuristic:
		return HeuristicPredictor{}, nil
	default:
		return nil, fmt.Errorf("unknown predictor mode %q", cfg.Mode)
	}
}

// Evaluation is a prediction together with how it was obtained.
type Evaluation struct {
	Result   Result
	FellBack bool
	Outcome  string
}

// Service calls a Predictor once under a timeout and substitutes
// FallbackResult on any failure.
type Service struct {
	predictor Predictor
	caller    *resilient.Caller[Result]
}

func NewService(predictor Predictor, cfg config.PredictorConfig, logger *zap.Logger, observer resilient.Observer) *Service {
	policy := resilient.Policy{
		Name:            collaboratorName,
		Timeout:         cfg.Timeout,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
	}
	return &Service{
		predictor: predictor,
		caller:    resilient.NewCaller[Result](policy, logger, observer),
	}
}

func (service *Service) Evaluate(ctx context.Context, vitals Vitals) Evaluation {
	payload := vitals.WithDefaults()
	outcome := service.caller.Call(ctx,
		func(callCtx context.Context) (Result, error) {
			return service.predictor.Predict(callCtx, payload)
		},
		func(error) Result {
			return FallbackResult()
		},
	)
	return Evaluation{Result: outcome.Value, FellBack: outcome.FellBack, Outcome: outcome.Kind}
}
