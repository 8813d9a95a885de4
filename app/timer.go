package app

import "math"

// TimerMode selects whether a Timer stops or wraps when it finishes.
type TimerMode int

const (
	Once TimerMode = iota
	Repeating
)

// Timer counts elapsed seconds towards Duration.
type Timer struct {
	Duration float64
	Mode     TimerMode
	Paused   bool

	elapsed  float64
	finished bool
	times    int
}

// NewTimer returns a timer of seconds in mode.
func NewTimer(seconds float64, mode TimerMode) Timer {
	return Timer{Duration: seconds, Mode: mode}
}

// Tick advances the timer by dt seconds.
func (t *Timer) Tick(dt float64) *Timer {
	if t.Paused {
		t.times = 0
		if t.Mode == Repeating {
			t.finished = false
		}
		return t
	}
	if t.Mode != Repeating && t.finished {
		t.times = 0
		return t
	}

	t.elapsed += dt
	t.finished = t.elapsed >= t.Duration
	if !t.finished {
		t.times = 0
		return t
	}

	if t.Mode == Repeating {
		if t.Duration > 0 {
			t.times = int(t.elapsed / t.Duration)
			t.elapsed = math.Mod(t.elapsed, t.Duration)
		} else {
			t.times = 1
			t.elapsed = 0
		}
	} else {
		t.times = 1
		t.elapsed = t.Duration
	}
	return t
}

// Finished reports whether the timer reached Duration. A repeating timer
// is finished only on the tick that wrapped.
func (t *Timer) Finished() bool { return t.finished }

// JustFinished reports whether the last Tick finished the timer.
func (t *Timer) JustFinished() bool { return t.times > 0 }

// TimesFinishedThisTick returns how many periods the last Tick completed.
func (t *Timer) TimesFinishedThisTick() int { return t.times }

// Elapsed returns the seconds elapsed in the current period.
func (t *Timer) Elapsed() float64 { return t.elapsed }

// Remaining returns the seconds left in the current period.
func (t *Timer) Remaining() float64 { return t.Duration - t.elapsed }

// Fraction returns elapsed/Duration, or 1 for a zero duration.
func (t *Timer) Fraction() float64 {
	if t.Duration == 0 {
		return 1
	}
	return t.elapsed / t.Duration
}

// Reset rewinds the timer.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.times = 0
}
