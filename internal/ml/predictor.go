package ml

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"immoval/internal/encode"
)

// MetricsInterface defines the metrics methods needed by the predictor.
type MetricsInterface interface {
	PredictionsInc()
	FailuresInc()
	EncodeErrorsInc()
	LatencyObserve(float64)
	ModelAgeSet(float64)
	PriceObserve(float64)
}

// Predictor turns raw property records into price estimates. It encodes the
// record, delegates to the injected model and undoes the log1p target
// transform on the output. It holds no mutable state between calls and is
// safe for concurrent use once constructed.
type Predictor struct {
	model   Model
	metrics MetricsInterface
}

func New(model Model) *Predictor {
	return NewWithMetrics(model, nil, time.Time{})
}

// NewWithMetrics creates a predictor with metrics tracking. modelCreated, when
// known, seeds the model age gauge.
func NewWithMetrics(model Model, metrics MetricsInterface, modelCreated time.Time) *Predictor {
	if metrics != nil && !modelCreated.IsZero() {
		metrics.ModelAgeSet(time.Since(modelCreated).Seconds())
	}
	return &Predictor{model: model, metrics: metrics}
}

// Predict returns the estimated price in euros for a property record.
// Encoder errors propagate unchanged; model failures come back wrapped in a
// PredictionError.
func (p *Predictor) Predict(rec encode.Record) (float64, error) {
	if p == nil || p.model == nil {
		return 0, &PredictionError{Err: errors.New("no model loaded")}
	}

	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.LatencyObserve(time.Since(start).Seconds())
		}
	}()

	vec, err := encode.Encode(rec)
	if err != nil {
		if p.metrics != nil {
			p.metrics.EncodeErrorsInc()
		}
		return 0, err
	}

	out, err := p.model.Predict(vec.Row())
	if err != nil {
		if p.metrics != nil {
			p.metrics.FailuresInc()
		}
		log.Error().Err(err).Msg("model inference failed")
		return 0, &PredictionError{Err: err}
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		if p.metrics != nil {
			p.metrics.FailuresInc()
		}
		return 0, &PredictionError{Err: fmt.Errorf("model returned non-finite output %v", out)}
	}

	// The model predicts log1p(price); invert it.
	price := math.Expm1(out)

	if p.metrics != nil {
		p.metrics.PredictionsInc()
		p.metrics.PriceObserve(price)
	}

	log.Debug().
		Str("municipality", rec.Municipality).
		Float64("living_area", rec.LivingArea).
		Float64("price", price).
		Msg("prediction served")

	return price, nil
}
