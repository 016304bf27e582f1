// Package resilient wraps calls to external collaborators (the risk predictor,
// the chat-completion API) with a bounded timeout, a single attempt and a typed
// fallback. Failures are logged and counted but never returned to callers as
// errors they must handle.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeTimeout     = "timeout"
	OutcomeBreakerOpen = "breaker_open"
)

type Observer interface {
	ObserveExternalCall(collaborator string, outcome string, elapsed time.Duration)
}

// Policy configures one collaborator. BreakerFailures of zero disables the
// circuit breaker.
type Policy struct {
	Name            string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Outcome[T any] struct {
	Value    T
	FellBack bool
	Kind     string
	Err      error
	Elapsed  time.Duration
}

type Caller[T any] struct {
	policy   Policy
	breaker  *gobreaker.CircuitBreaker[T]
	logger   *zap.Logger
	observer Observer
	tracer   trace.Tracer
}

func NewCaller[T any](policy Policy, logger *zap.Logger, observer Observer) *Caller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}

	caller := &Caller[T]{
		policy:   policy,
		logger:   logger.With(zap.String("collaborator", policy.Name)),
		observer: observer,
		tracer:   otel.Tracer("github.com/terraincognita07/fetalrisk/internal/resilient"),
	}

	if policy.BreakerFailures > 0 {
		cooldown := policy.BreakerCooldown
		if cooldown <= 0 {
			cooldown = 30 * time.Second
		}
		threshold := policy.BreakerFailures
		caller.breaker = gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
			Name:        policy.Name,
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				caller.logger.Warn("circuit breaker state changed",
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return caller
}

// Call runs fn once. Any error, timeout, panic or open breaker yields
// fallback(cause) instead.
func (caller *Caller[T]) Call(ctx context.Context, fn func(context.Context) (T, error), fallback func(cause error) T) Outcome[T] {
	started := time.Now()

	ctx, span := caller.tracer.Start(ctx, "external."+caller.policy.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("collaborator", caller.policy.Name)),
	)
	defer span.End()

	callCtx := ctx
	cancel := func() {}
	if caller.policy.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, caller.policy.Timeout)
	}
	defer cancel()

	attempt := func() (T, error) {
		return runBounded(callCtx, fn)
	}

	var (
		value T
		err   error
	)
	if caller.breaker != nil {
		value, err = caller.breaker.Execute(attempt)
	} else {
		value, err = attempt()
	}
	elapsed := time.Since(started)

	if err == nil {
		caller.observe(OutcomeSuccess, elapsed)
		span.SetStatus(codes.Ok, "")
		return Outcome[T]{Value: value, Kind: OutcomeSuccess, Elapsed: elapsed}
	}

	kind := classify(err)
	caller.observe(kind, elapsed)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	caller.logger.Warn("external call failed, using fallback",
		zap.String("outcome", kind),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)

	return Outcome[T]{
		Value:    fallback(err),
		FellBack: true,
		Kind:     kind,
		Err:      err,
		Elapsed:  elapsed,
	}
}

func (caller *Caller[T]) observe(outcome string, elapsed time.Duration) {
	if caller.observer != nil {
		caller.observer.ObserveExternalCall(caller.policy.Name, outcome, elapsed)
	}
}

type attemptResult[T any] struct {
	value T
	err   error
}

// runBounded returns as soon as ctx is done even if fn ignores ctx.
func runBounded[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	done := make(chan attemptResult[T], 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				var zero T
				done <- attemptResult[T]{value: zero, err: fmt.Errorf("panic: %v", recovered)}
			}
		}()
		value, err := fn(ctx)
		done <- attemptResult[T]{value: value, err: err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return OutcomeBreakerOpen
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
