package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Control ranges. Values outside them cannot be produced by the stepper or picker.
const (
	defaultWakeHour   = 7
	defaultWakeMinute = 0

	defaultSleepAmount = 8.0
	minSleepAmount     = 4.0
	maxSleepAmount     = 12.0
	sleepStep          = 0.25

	defaultCoffeeAmount = 1
	minCoffeeAmount     = 1
	maxCoffeeAmount     = 10
)

// ErrInput is returned for text that does not parse as a wake time, sleep amount or cup count.
var ErrInput = errors.New("invalid input")

// referenceDay anchors the wake-up time; only its time of day is ever shown.
var referenceDay = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

type Inputs struct {
	WakeUp       time.Time
	SleepAmount  float64 // hours
	CoffeeAmount int     // cups
}

// DefaultWakeTime returns 07:00 on the reference day in loc.
func DefaultWakeTime(loc *time.Location) time.Time {
	return wakeAt(defaultWakeHour, defaultWakeMinute, loc)
}

func DefaultInputs(loc *time.Location) Inputs {
	return Inputs{
		WakeUp:       DefaultWakeTime(loc),
		SleepAmount:  defaultSleepAmount,
		CoffeeAmount: defaultCoffeeAmount,
	}
}

func wakeAt(h, m int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, mo, d := referenceDay.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc)
}

// SetWake moves the wake-up time to h:m, wrapping like a wheel picker.
func (in *Inputs) SetWake(h, m int) {
	h = mod(h, 24)
	m = mod(m, 60)
	in.WakeUp = wakeAt(h, m, in.WakeUp.Location())
}

// StepSleep moves the sleep amount by n stepper clicks.
func (in *Inputs) StepSleep(n int) {
	in.SleepAmount = snapSleep(in.SleepAmount + float64(n)*sleepStep)
}

func (in *Inputs) SetCoffee(n int) {
	in.CoffeeAmount = clampInt(n, minCoffeeAmount, maxCoffeeAmount)
}

func (in Inputs) WakeLabel() string {
	return in.WakeUp.Format("15:04")
}

func (in Inputs) SleepLabel() string {
	return strconv.FormatFloat(in.SleepAmount, 'g', -1, 64) + " hours"
}

func (in Inputs) CoffeeLabel() string {
	if in.CoffeeAmount == 1 {
		return "1 cup"
	}
	return fmt.Sprintf("%d cups", in.CoffeeAmount)
}

// ParseInputs reads the three controls from text. Empty fields keep their
// defaults; numeric values are snapped onto the control ranges.
func ParseInputs(wake, sleep, coffee string, loc *time.Location) (Inputs, error) {
	in := DefaultInputs(loc)

	if s := strings.TrimSpace(wake); s != "" {
		mins, err := parseHHMMToMin(s)
		if err != nil {
			return in, err
		}
		in.SetWake(mins/60, mins%60)
	}
	if s := strings.TrimSpace(sleep); s != "" {
		v, err := parseFloat(s)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return in, fmt.Errorf("%w: sleep amount %q, expected hours (e.g. 8, 7.5)", ErrInput, sleep)
		}
		in.SleepAmount = snapSleep(v)
	}
	if s := strings.TrimSpace(coffee); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("%w: coffee amount %q, expected cups (1-%d)", ErrInput, coffee, maxCoffeeAmount)
		}
		in.SetCoffee(n)
	}
	return in, nil
}

func snapSleep(h float64) float64 {
	h = math.Round(h/sleepStep) * sleepStep
	return math.Min(maxSleepAmount, math.Max(minSleepAmount, h))
}

func parseHHMMToMin(s string) (int, error) {
	t := strings.TrimSpace(s)
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: time %q, expected HH:MM", ErrInput, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: time %q, expected HH:MM", ErrInput, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q, expected HH:MM", ErrInput, s)
	}
	return h*60 + m, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
