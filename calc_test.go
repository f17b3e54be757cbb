package main

import (
	"errors"
	"math"
	"testing"
	"time"
)

type call struct{ wake, sleep, coffee float64 }

// recorder is a stub model returning a fixed prediction and remembering its calls.
type recorder struct {
	out   float64
	err   error
	calls []call
}

func (r *recorder) Predict(wake, sleep, coffee float64) (float64, error) {
	r.calls = append(r.calls, call{wake, sleep, coffee})
	return r.out, r.err
}

func TestCalculateBedtimeDefaultsEightHours(t *testing.T) {
	stub := &recorder{out: 28800}
	in := DefaultInputs(time.UTC)

	got, err := CalculateBedtime(stub, in, Clock12)
	if err != nil {
		t.Fatalf("CalculateBedtime error: %v", err)
	}
	if got != "11:00 PM" {
		t.Fatalf("bedtime mismatch: got %q want %q", got, "11:00 PM")
	}

	bed, err := Bedtime(stub, in)
	if err != nil {
		t.Fatalf("Bedtime error: %v", err)
	}
	if want := in.WakeUp.AddDate(0, 0, -1); bed.YearDay() != want.YearDay() || bed.Hour() != 23 {
		t.Fatalf("expected 23:00 the previous day, got %s", bed)
	}
}

func TestCalculateBedtimePassesFeatures(t *testing.T) {
	stub := &recorder{out: 3600}
	in := DefaultInputs(time.UTC)
	in.SetWake(6, 45)
	in.SleepAmount = 7.25
	in.SetCoffee(3)

	if _, err := CalculateBedtime(stub, in, Clock24); err != nil {
		t.Fatalf("CalculateBedtime error: %v", err)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(stub.calls))
	}
	want := call{wake: 6*3600 + 45*60, sleep: 7.25, coffee: 3}
	if stub.calls[0] != want {
		t.Fatalf("features mismatch: got %+v want %+v", stub.calls[0], want)
	}
}

func TestCalculateBedtimeClockStyles(t *testing.T) {
	cases := []struct {
		name   string
		h, m   int
		actual float64
		clock  Clock
		want   string
	}{
		{"12h evening", 7, 0, 28800, Clock12, "11:00 PM"},
		{"24h evening", 7, 0, 28800, Clock24, "23:00"},
		{"12h after midnight", 9, 30, 30600, Clock12, "1:00 AM"},
		{"24h partial minutes", 6, 15, 27900, Clock24, "22:30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := DefaultInputs(time.UTC)
			in.SetWake(tc.h, tc.m)
			got, err := CalculateBedtime(&recorder{out: tc.actual}, in, tc.clock)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCalculateBedtimeFailure(t *testing.T) {
	cause := errors.New("model not compiled")
	got, err := CalculateBedtime(&recorder{err: cause}, DefaultInputs(time.UTC), Clock12)
	if got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if !errors.Is(err, ErrPrediction) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrPrediction wrapping cause, got %v", err)
	}
}

func TestScreenSuccessShowsNoAlert(t *testing.T) {
	s := NewScreen(&recorder{out: 28800}, time.UTC, Clock12, nil)
	for sleep := minSleepAmount; sleep <= maxSleepAmount; sleep += 1 {
		for coffee := minCoffeeAmount; coffee <= maxCoffeeAmount; coffee++ {
			s.Inputs.SleepAmount = sleep
			s.Inputs.SetCoffee(coffee)
			v := s.Render()
			if v.Bedtime == "" || v.ShowingError() {
				t.Fatalf("sleep=%v coffee=%d: expected a bedtime and no alert, got %+v", sleep, coffee, v)
			}
		}
	}
}

func TestScreenFailureRaisesAlert(t *testing.T) {
	s := NewScreen(&recorder{err: errors.New("boom")}, time.UTC, Clock12, nil)
	v := s.Render()
	if v.Bedtime != "" {
		t.Fatalf("expected empty bedtime, got %q", v.Bedtime)
	}
	want := Alert{Title: "Error", Message: "Sorry, there was a problem calculating your bedtime.", Showing: true}
	if v.Alert != want || s.Alert != want {
		t.Fatalf("alert mismatch: view %+v screen %+v", v.Alert, s.Alert)
	}

	s.DismissAlert()
	if s.Alert.Showing {
		t.Fatal("alert still showing after dismiss")
	}
}

func TestScreenRejectsNonFinitePrediction(t *testing.T) {
	nan := PredictorFunc(func(float64, float64, float64) (float64, error) {
		var zero float64
		return zero / zero, nil
	})
	v := NewScreen(nan, time.UTC, Clock12, nil).Render()
	if !v.ShowingError() {
		t.Fatalf("expected alert for NaN prediction, got %+v", v)
	}
}

func TestScreenRejectsNegativePrediction(t *testing.T) {
	v := NewScreen(fixed(-3600), time.UTC, Clock12, nil).Render()
	if !v.ShowingError() || v.Bedtime != "" {
		t.Fatalf("expected alert for negative prediction, got %+v", v)
	}
}

func TestBedtimeRejectsOutOfBoundPredictions(t *testing.T) {
	cases := map[string]float64{
		"negative":     -1,
		"over a day":   maxPrediction.Seconds() + 1,
		"overflows":    1e12,
		"positive inf": math.Inf(1),
		"negative inf": math.Inf(-1),
	}
	for name, actual := range cases {
		t.Run(name, func(t *testing.T) {
			bed, err := Bedtime(fixed(actual), DefaultInputs(time.UTC))
			if !errors.Is(err, ErrPrediction) || !errors.Is(err, ErrUnusableModel) {
				t.Fatalf("expected ErrPrediction wrapping ErrUnusableModel, got bed=%s err=%v", bed, err)
			}
		})
	}

	bed, err := Bedtime(fixed(maxPrediction.Seconds()), DefaultInputs(time.UTC))
	if err != nil {
		t.Fatalf("a full day should still be accepted: %v", err)
	}
	if bed.Hour() != 7 {
		t.Fatalf("expected 07:00 the day before, got %s", bed)
	}
}

func TestScreenSuccessAfterUndismissedAlert(t *testing.T) {
	stub := &recorder{err: errors.New("boom")}
	s := NewScreen(stub, time.UTC, Clock12, nil)
	if v := s.Render(); !v.ShowingError() {
		t.Fatalf("expected error state, got %+v", v)
	}

	stub.err, stub.out = nil, 28800
	v := s.Render()
	if v.ShowingError() || v.Bedtime != "11:00 PM" {
		t.Fatalf("expected displaying state, got %+v", v)
	}
	if !s.Alert.Showing {
		t.Fatal("alert should stay up until dismissed")
	}
}

func TestScreenRecomputesOnCoffeeChange(t *testing.T) {
	stub := &recorder{out: 28800}
	s := NewScreen(stub, time.UTC, Clock12, nil)
	s.Render()
	s.Inputs.SetCoffee(4)
	s.Render()

	if len(stub.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(stub.calls))
	}
	if stub.calls[0].coffee != 1 || stub.calls[1].coffee != 4 {
		t.Fatalf("coffee features mismatch: %+v", stub.calls)
	}
}

func TestScreenWakeShiftMovesBedtime(t *testing.T) {
	stub := &recorder{out: 28800}
	in := DefaultInputs(time.UTC)
	at7, err := Bedtime(stub, in)
	if err != nil {
		t.Fatalf("Bedtime error: %v", err)
	}
	in.SetWake(6, 0)
	at6, err := Bedtime(stub, in)
	if err != nil {
		t.Fatalf("Bedtime error: %v", err)
	}
	if d := at7.Sub(at6); d != time.Hour {
		t.Fatalf("expected bedtime 1h earlier, got shift %s", d)
	}
	got, _ := CalculateBedtime(stub, in, Clock12)
	if got != "10:00 PM" {
		t.Fatalf("got %q want %q", got, "10:00 PM")
	}
}

func TestScreenDefaultEqualsExplicit(t *testing.T) {
	stub := &recorder{out: 29220}
	fresh := NewScreen(stub, time.UTC, Clock12, nil).Render()

	explicit := NewScreen(stub, time.UTC, Clock12, nil)
	in, err := ParseInputs("07:00", "8.0", "1", time.UTC)
	if err != nil {
		t.Fatalf("ParseInputs error: %v", err)
	}
	explicit.Inputs = in
	v := explicit.Render()

	if fresh.Bedtime != v.Bedtime || fresh.Inputs != v.Inputs {
		t.Fatalf("default %+v differs from explicit %+v", fresh, v)
	}
	if stub.calls[0] != stub.calls[1] {
		t.Fatalf("model features differ: %+v vs %+v", stub.calls[0], stub.calls[1])
	}
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]Clock{"": Clock12, "12": Clock12, "12h": Clock12, "24": Clock24, "24h": Clock24} {
		got, err := parseClock(in)
		if err != nil || got != want {
			t.Fatalf("parseClock(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseClock("36"); !errors.Is(err, ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}
