package stagehand

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Game hosts a GameStage inside ebiten. It implements ebiten.Game.
//
// Each ebiten tick Game polls the input device, advances its fixed-step
// clock and runs Stage.Update once per whole step, executing the returned
// instructions. Each ebiten frame it draws the stage and renders the
// batches. The first Update locks the storage and initializes every scene;
// load assets before that, or Unlock, load and Lock again between frames.
type Game struct {
	stage    *GameStage
	input    *InputMap[Command]
	storage  *Storage
	renderer *Renderer
	mixer    *Mixer
	sink     InstructionSink

	device   Device
	scripted *ScriptedDevice
	runner   *TestRunner

	stepper     *Stepper
	clock       Clock
	last        time.Duration
	initialized bool
	info        []UpdateInfo
	quit        bool

	width, height int
	clearColor    Color

	screenshotDir   string
	screenshotQueue []string

	debug bool
	stats debugStats
}

// NewGame creates a game over stage, reading input into input and resolving
// tickets through storage. Only the loop, window size, clear color and
// screenshot fields of cfg are used.
func NewGame(stage *GameStage, input *InputMap[Command], storage *Storage, cfg RunConfig) (*Game, error) {
	cfg = cfg.withDefaults()
	stepper, err := NewStepper(cfg.FPS, cfg.MaxSteps)
	if err != nil {
		return nil, err
	}
	return &Game{
		stage:         stage,
		input:         input,
		storage:       storage,
		renderer:      NewRenderer(storage),
		device:        NewEbitenDevice(),
		stepper:       stepper,
		clock:         NewSystemClock(),
		width:         cfg.Width,
		height:        cfg.Height,
		clearColor:    cfg.ClearColor,
		screenshotDir: cfg.ScreenshotDir,
		debug:         cfg.Debug,
	}, nil
}

// Stage returns the hosted stage.
func (g *Game) Stage() *GameStage { return g.stage }

// Input returns the input map polled every tick.
func (g *Game) Input() *InputMap[Command] { return g.input }

// Storage returns the resource storage.
func (g *Game) Storage() *Storage { return g.storage }

// Size returns the logical screen size.
func (g *Game) Size() (width, height int) { return g.width, g.height }

// Mixer returns the audio mixer, or nil when audio is disabled.
func (g *Game) Mixer() *Mixer { return g.mixer }

// SetMixer sets the mixer that executes sound and music instructions.
func (g *Game) SetMixer(m *Mixer) { g.mixer = m }

// SetDevice replaces the input device.
func (g *Game) SetDevice(d Device) {
	g.device = d
	g.scripted = nil
}

// SetClock replaces the clock driving the fixed-step loop.
func (g *Game) SetClock(c Clock) { g.clock = c }

// SetInstructionSink forwards every executed instruction to sink.
func (g *Game) SetInstructionSink(sink InstructionSink) { g.sink = sink }

// SetTestRunner attaches a TestRunner. Its step runs at the start of each
// Update, before input is polled.
func (g *Game) SetTestRunner(r *TestRunner) {
	g.runner = r
	g.scriptedDevice()
}

// SetDebugMode enables per-tick timing logs at debug level.
func (g *Game) SetDebugMode(on bool) { g.debug = on }

// RequestQuit ends the run loop after the current Update.
func (g *Game) RequestQuit() { g.quit = true }

func (g *Game) scriptedDevice() *ScriptedDevice {
	if g.scripted == nil {
		g.scripted = NewScriptedDevice(g.device)
		g.device = g.scripted
	}
	return g.scripted
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if !g.initialized {
		g.storage.Lock()
		g.stage.Initialize(&Initialize{Input: g.input, Storage: g.storage})
		g.last = g.clock.Now()
		g.initialized = true
	}
	if g.runner != nil {
		g.runner.step(g)
	}

	if err := PollInput(g.device, g.input); err != nil {
		logger().Warn("poll input", "err", err)
	}
	g.input.MarkPolled()
	if g.mixer != nil {
		g.info = append(g.info, g.mixer.Poll()...)
	}

	now := g.clock.Now()
	elapsed := now - g.last
	g.last = now

	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}
	steps := 0
	for n := g.stepper.Advance(elapsed); n > 0; n-- {
		ins, err := g.stage.Update(&Update{Input: g.input, Info: g.info}, g.stepper.Delta())
		if errors.Is(err, ErrNoScenesToUpdate) {
			logger().Warn("update skipped", "err", err)
			break
		}
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		steps++
		g.info = g.info[:0]
		g.input.MarkConsumed()
		for _, in := range ins {
			g.execute(in)
		}
	}
	if g.debug {
		g.stats.steps = steps
		g.stats.updateTime = time.Since(t0)
	}

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) execute(ins Instruction) {
	switch ins.Kind {
	case InstructionQuit:
		g.quit = true
	case InstructionPlayMusic, InstructionPlaySound:
		if g.mixer == nil {
			break
		}
		if err := g.mixer.Execute(ins); err != nil {
			LogResourceError(err)
		}
	}
	if g.sink != nil {
		g.sink.Execute(ins)
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}

	screen.Fill(g.clearColor)
	batches, err := g.stage.Draw(DrawContext{Width: g.width, Height: g.height}, g.stepper.Interp())
	if err != nil {
		logger().Warn("draw skipped", "err", err)
	} else if err := g.renderer.Render(screen, batches); err != nil {
		LogResourceError(err)
	}
	g.flushScreenshots(screen)

	if g.debug {
		g.stats.drawTime = time.Since(t0)
		g.stats.batchCount = len(batches)
		g.stats.drawCount = countDraws(batches)
		g.debugLog(g.stats)
	}
}

// Layout implements ebiten.Game. The logical screen keeps the configured
// size regardless of the window size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens a window and runs a Game until a scene instructs Quit or the
// window closes. Assets are read from cfg.AssetDir. setup registers scenes,
// input actions and assets before the first frame.
func Run(cfg RunConfig, setup func(*Game) error) error {
	cfg = cfg.withDefaults()

	var actx *audio.Context
	if !cfg.NoAudio {
		actx = audio.NewContext(DefaultSampleRate)
	}
	dir := cfg.AssetDir
	if dir == "" {
		dir = "."
	}
	storage, err := NewStorage(os.DirFS(dir), actx)
	if err != nil {
		return err
	}
	g, err := NewGame(NewGameStage(), NewInputMap[Command](), storage, cfg)
	if err != nil {
		return err
	}
	if actx != nil {
		g.SetMixer(NewMixer(actx, storage))
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return fmt.Errorf("stagehand: read test script: %w", err)
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return err
		}
		g.SetTestRunner(runner)
	}
	if setup != nil {
		if err := setup(g); err != nil {
			return err
		}
	}
	if cfg.ShowFPS {
		g.stage.AddScene(FPSSceneKey, NewFPSScene(), true)
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(ebiten.SyncWithFPS)
	return ebiten.RunGame(g)
}
