package stagehand

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Key    string `json:"key,omitempty"`
	Button string `json:"button,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input, screenshots and quitting across
// frames for automated visual testing. Attach to a Game via SetTestRunner.
//
// Steps: "press"/"release" (key), "tap" (key, held for one frame),
// "click" (button at x, y), "move" (x, y), "wait" (frames), "screenshot"
// (label) and "quit".
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	pending   []func(*ScriptedDevice)
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Game via SetTestRunner. Key and button names are
// validated up front.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "press", "release", "tap":
		_, err := ParseKey(st.Key)
		return err
	case "click":
		if st.Button == "" {
			return nil
		}
		_, err := ParseMouseButton(st.Button)
		return err
	case "move", "wait", "screenshot", "quit":
		return nil
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// scriptHost is what a TestRunner drives. Game implements it.
type scriptHost interface {
	scriptedDevice() *ScriptedDevice
	Screenshot(label string)
	RequestQuit()
}

// step advances the test runner by one frame. Called from Game.Update
// before input is polled.
func (r *TestRunner) step(h scriptHost) {
	if r.done {
		return
	}
	dev := h.scriptedDevice()
	// Deferred halves of taps and clicks run before anything else.
	if len(r.pending) > 0 {
		fn := r.pending[0]
		r.pending = r.pending[1:]
		fn(dev)
		r.checkDone()
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		k, _ := ParseKey(st.Key)
		dev.PressKey(k)
	case "release":
		k, _ := ParseKey(st.Key)
		dev.ReleaseKey(k)
	case "tap":
		k, _ := ParseKey(st.Key)
		dev.PressKey(k)
		r.pending = append(r.pending, func(d *ScriptedDevice) { d.ReleaseKey(k) })
	case "click":
		b := ebiten.MouseButtonLeft
		if st.Button != "" {
			b, _ = ParseMouseButton(st.Button)
		}
		dev.SetCursor(st.X, st.Y)
		dev.PressMouseButton(b)
		r.pending = append(r.pending, func(d *ScriptedDevice) { d.ReleaseMouseButton(b) })
	case "move":
		dev.SetCursor(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		h.Screenshot(st.Label)
	case "quit":
		h.RequestQuit()
	}

	r.checkDone()
}

func (r *TestRunner) checkDone() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(r.pending) == 0 {
		r.done = true
	}
}
