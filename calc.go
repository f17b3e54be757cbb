package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

const (
	alertTitle   = "Error"
	alertMessage = "Sorry, there was a problem calculating your bedtime."
)

// ErrPrediction is the single failure kind: the model gave no usable result.
var ErrPrediction = errors.New("prediction failed")

// maxPrediction bounds a predicted night; anything longer is not a sleep duration.
const maxPrediction = 24 * time.Hour

// Clock selects the short time style used for the bedtime.
type Clock int

const (
	Clock12 Clock = iota // 11:00 PM
	Clock24              // 23:00
)

func (c Clock) layout() string {
	if c == Clock24 {
		return "15:04"
	}
	return "3:04 PM"
}

func (c Clock) String() string {
	if c == Clock24 {
		return "24"
	}
	return "12"
}

func parseClock(s string) (Clock, error) {
	switch s {
	case "12", "12h", "":
		return Clock12, nil
	case "24", "24h":
		return Clock24, nil
	}
	return Clock12, fmt.Errorf("%w: clock %q, expected 12 or 24", ErrInput, s)
}

// wakeSeconds is the wake-up time as seconds since midnight.
func wakeSeconds(t time.Time) float64 {
	return float64(t.Hour()*3600 + t.Minute()*60)
}

// Bedtime returns wake-up minus the predicted actual sleep.
func Bedtime(p Predictor, in Inputs) (time.Time, error) {
	actual, err := p.Predict(wakeSeconds(in.WakeUp), in.SleepAmount, float64(in.CoffeeAmount))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrPrediction, err)
	}
	if math.IsNaN(actual) || actual < 0 || actual > maxPrediction.Seconds() {
		return time.Time{}, fmt.Errorf("%w: %w: %v", ErrPrediction, ErrUnusableModel, actual)
	}
	return in.WakeUp.Add(-time.Duration(actual * float64(time.Second))), nil
}

// CalculateBedtime formats the bedtime for the given inputs, or fails with ErrPrediction.
func CalculateBedtime(p Predictor, in Inputs, clock Clock) (string, error) {
	bed, err := Bedtime(p, in)
	if err != nil {
		return "", err
	}
	return bed.Format(clock.layout()), nil
}

type Alert struct {
	Title   string
	Message string
	Showing bool
}

// View is what the screen shows after a recomputation: either a bedtime or the error alert.
type View struct {
	Bedtime string
	Alert   Alert
	Inputs  Inputs
}

// ShowingError reports the error state: no bedtime and the alert up. A bedtime
// computed while an undismissed alert is still up counts as displaying.
func (v View) ShowingError() bool { return v.Bedtime == "" && v.Alert.Showing }

// Screen is the single form: the three inputs, the model and the alert.
// It is not safe for concurrent use.
type Screen struct {
	Inputs Inputs
	Alert  Alert

	model   Predictor
	clock   Clock
	log     *slog.Logger
	metrics *metrics
}

func NewScreen(model Predictor, loc *time.Location, clock Clock, log *slog.Logger) *Screen {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Screen{
		Inputs: DefaultInputs(loc),
		model:  model,
		clock:  clock,
		log:    log,
	}
}

// Render recomputes the bedtime from the current inputs. A failure raises the alert.
func (s *Screen) Render() View {
	start := time.Now()
	bed, err := CalculateBedtime(s.model, s.Inputs, s.clock)
	s.metrics.observe(err, time.Since(start))
	if err != nil {
		s.log.Warn("bedtime calculation failed",
			"wake", s.Inputs.WakeLabel(),
			"sleep", s.Inputs.SleepAmount,
			"coffee", s.Inputs.CoffeeAmount,
			"err", err)
		s.Alert = Alert{Title: alertTitle, Message: alertMessage, Showing: true}
		return View{Alert: s.Alert, Inputs: s.Inputs}
	}
	return View{Bedtime: bed, Alert: s.Alert, Inputs: s.Inputs}
}

func (s *Screen) DismissAlert() {
	s.Alert = Alert{}
}
