package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

var (
	// ErrModelArtifact covers a model file that is missing, unreadable or incomplete.
	ErrModelArtifact = errors.New("model artifact")
	// ErrUnusableModel is returned when a model evaluates to something that is not a duration.
	ErrUnusableModel = errors.New("model produced an unusable prediction")
)

// Predictor maps the three features to a predicted actual sleep, in seconds.
type Predictor interface {
	Predict(wakeSeconds, estimatedSleep, coffee float64) (float64, error)
}

type PredictorFunc func(wakeSeconds, estimatedSleep, coffee float64) (float64, error)

func (f PredictorFunc) Predict(wakeSeconds, estimatedSleep, coffee float64) (float64, error) {
	return f(wakeSeconds, estimatedSleep, coffee)
}

// LinearModel is a fitted linear regression over
// (wake seconds-of-day, desired sleep hours, coffee cups).
type LinearModel struct {
	Name           string
	Intercept      float64
	Wake           float64
	EstimatedSleep float64
	Coffee         float64
}

// DefaultModel is used when no artifact is configured: one hour of sleep
// per requested hour, plus seven minutes per cup.
var DefaultModel = LinearModel{
	Name:           "builtin",
	EstimatedSleep: 3600,
	Coffee:         420,
}

func (m LinearModel) Predict(wakeSeconds, estimatedSleep, coffee float64) (float64, error) {
	v := m.Intercept + m.Wake*wakeSeconds + m.EstimatedSleep*estimatedSleep + m.Coffee*coffee
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnusableModel, v)
	}
	return v, nil
}

// modelFile is the on-disk artifact. Pointers distinguish a zero weight from a missing one.
type modelFile struct {
	Name         string   `json:"name"`
	Intercept    *float64 `json:"intercept"`
	Coefficients struct {
		Wake           *float64 `json:"wake"`
		EstimatedSleep *float64 `json:"estimatedSleep"`
		Coffee         *float64 `json:"coffee"`
	} `json:"coefficients"`
}

// LoadLinearModel reads a JSON model artifact, e.g.
//
//	{"name":"v2","intercept":-120,"coefficients":{"wake":0.001,"estimatedSleep":3550,"coffee":510}}
func LoadLinearModel(path string) (LinearModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return LinearModel{}, fmt.Errorf("%w: %v", ErrModelArtifact, err)
	}
	var f modelFile
	if err := json.Unmarshal(b, &f); err != nil {
		return LinearModel{}, fmt.Errorf("%w: %s: %v", ErrModelArtifact, path, err)
	}
	c := f.Coefficients
	switch {
	case f.Intercept == nil:
		return LinearModel{}, fmt.Errorf("%w: %s: missing intercept", ErrModelArtifact, path)
	case c.Wake == nil, c.EstimatedSleep == nil, c.Coffee == nil:
		return LinearModel{}, fmt.Errorf("%w: %s: coefficients must include wake, estimatedSleep and coffee", ErrModelArtifact, path)
	}
	name := f.Name
	if name == "" {
		name = path
	}
	return LinearModel{
		Name:           name,
		Intercept:      *f.Intercept,
		Wake:           *c.Wake,
		EstimatedSleep: *c.EstimatedSleep,
		Coffee:         *c.Coffee,
	}, nil
}

// brokenModel stands in for an artifact that failed to load so the screen
// still comes up and reports the failure through its alert.
type brokenModel struct{ err error }

func (b brokenModel) Predict(float64, float64, float64) (float64, error) { return 0, b.err }

// openModel resolves the configured model. An empty path selects DefaultModel.
func openModel(path string) (Predictor, string, error) {
	if path == "" {
		return DefaultModel, DefaultModel.Name, nil
	}
	m, err := LoadLinearModel(path)
	if err != nil {
		return brokenModel{err: err}, path, err
	}
	return m, m.Name, nil
}
