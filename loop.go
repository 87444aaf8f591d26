package stagehand

import (
	"fmt"
	"time"
)

// Stepper is a fixed-timestep accumulator. Each frame the host passes the
// elapsed real time to Advance and runs the returned number of simulation
// steps, then draws with Interp.
type Stepper struct {
	step     time.Duration
	lag      time.Duration
	maxSteps int
}

// NewStepper creates a stepper for fps simulation steps per second.
// maxSteps caps the steps returned by a single Advance; 0 means no cap.
// Lag beyond the cap is dropped.
func NewStepper(fps, maxSteps int) (*Stepper, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("stagehand: fps must be positive, got %d", fps)
	}
	return &Stepper{step: time.Second / time.Duration(fps), maxSteps: maxSteps}, nil
}

// Step returns the fixed step duration.
func (s *Stepper) Step() time.Duration { return s.step }

// Delta returns the fixed step in seconds, the delta passed to Update.
func (s *Stepper) Delta() float64 { return s.step.Seconds() }

// Lag returns the accumulated time not yet consumed by a step.
func (s *Stepper) Lag() time.Duration { return s.lag }

// Advance adds elapsed to the lag and returns how many whole steps to run.
// Negative elapsed time is ignored.
func (s *Stepper) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		s.lag += elapsed
	}
	n := int(s.lag / s.step)
	if s.maxSteps > 0 && n > s.maxSteps {
		n = s.maxSteps
		s.lag = 0
		return n
	}
	s.lag -= time.Duration(n) * s.step
	return n
}

// Interp returns the leftover lag as a fraction of a step, in [0, 1).
func (s *Stepper) Interp() float64 {
	return float64(s.lag) / float64(s.step)
}

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// SystemClock is a Clock backed by time.Since its creation.
type SystemClock struct {
	start time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// App is driven by GameLoop.
type App interface {
	// Ticks returns monotonic time.
	Ticks() time.Duration
	// ProcessEvents polls the platform. It returns false once the
	// application should exit.
	ProcessEvents() (bool, error)
	// Update advances the simulation by delta seconds.
	Update(delta float64)
	// Draw renders a frame. interp is in [0, 1).
	Draw(interp float64, total time.Duration)
}

// GameLoop runs app at fps fixed simulation steps per second until
// ProcessEvents reports false or fails.
func GameLoop(app App, fps int) error {
	stepper, err := NewStepper(fps, 0)
	if err != nil {
		return err
	}
	delta := stepper.Delta()
	previous := app.Ticks()

	for {
		current := app.Ticks()
		elapsed := current - previous
		previous = current

		running, err := app.ProcessEvents()
		if err != nil {
			return fmt.Errorf("process events: %w", err)
		}
		if !running {
			return nil
		}

		for n := stepper.Advance(elapsed); n > 0; n-- {
			app.Update(delta)
		}
		app.Draw(stepper.Interp(), current)
	}
}
