package stagehand

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Defaults applied by RunConfig for zero fields.
const (
	DefaultTitle    = "stagehand"
	DefaultWidth    = 640
	DefaultHeight   = 480
	DefaultFPS      = 60
	DefaultMaxSteps = 5
)

// RunConfig configures the window and loop started by Run. Zero fields take
// the Default* values. Every field except ClearColor can be overridden
// from the environment with LoadRunConfigEnv. TestScript names a JSON test
// script (see LoadTestScript) to drive the game with.
type RunConfig struct {
	Title         string `yaml:"title" env:"STAGEHAND_TITLE"`
	Width         int    `yaml:"width" env:"STAGEHAND_WIDTH"`
	Height        int    `yaml:"height" env:"STAGEHAND_HEIGHT"`
	FPS           int    `yaml:"fps" env:"STAGEHAND_FPS"`
	MaxSteps      int    `yaml:"max_steps" env:"STAGEHAND_MAX_STEPS"`
	Resizable     bool   `yaml:"resizable" env:"STAGEHAND_RESIZABLE"`
	Debug         bool   `yaml:"debug" env:"STAGEHAND_DEBUG"`
	ShowFPS       bool   `yaml:"show_fps" env:"STAGEHAND_SHOW_FPS"`
	NoAudio       bool   `yaml:"no_audio" env:"STAGEHAND_NO_AUDIO"`
	AssetDir      string `yaml:"asset_dir" env:"STAGEHAND_ASSET_DIR"`
	ScreenshotDir string `yaml:"screenshot_dir" env:"STAGEHAND_SCREENSHOT_DIR"`
	TestScript    string `yaml:"test_script" env:"STAGEHAND_TEST_SCRIPT"`
	ClearColor    Color  `yaml:"clear_color"`
}

// LoadRunConfigEnv overlays STAGEHAND_* environment variables onto cfg.
// Unset variables leave their field untouched.
func LoadRunConfigEnv(cfg *RunConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("stagehand: parse env: %w", err)
	}
	return nil
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
	return c
}
