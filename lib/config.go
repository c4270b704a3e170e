package lib

import (
	"fmt"
	"strconv"
)

// Config holds runtime wiring for the demo. Pipeline thresholds are
// package constants.
type Config struct {
	CameraID    int
	SpritePath  string
	SceneWindow string
	LiveWindow  string
	SceneWidth  int
	SceneHeight int
	SerialPort  string // empty disables the serial mirror
	BaudRate    int
	MirrorSpeed int // mm/s sent to the mirror when spinning
	LogLevel    string
}

// DefaultConfig returns the configuration the demo ships with
func DefaultConfig() Config {
	return Config{
		CameraID:    0,
		SpritePath:  "gingertail_runwalk.bmp",
		SceneWindow: "Window",
		LiveWindow:  "Live",
		SceneWidth:  1200,
		SceneHeight: 1200,
		SerialPort:  "",
		BaudRate:    115200,
		MirrorSpeed: 100,
		LogLevel:    "info",
	}
}

// Validate checks the config and returns one message per problem, or nil.
func (c *Config) Validate() []string {
	var errors []string

	if c.CameraID < 0 {
		errors = append(errors, "camera id must not be negative")
	}
	if c.SpritePath == "" {
		errors = append(errors, "sprite path must be set")
	}
	if c.SceneWindow == "" || c.LiveWindow == "" {
		errors = append(errors, "window names must be set")
	}
	if c.SceneWindow == c.LiveWindow {
		errors = append(errors, "scene and live windows need different names")
	}
	// The sprite must fit at its rightmost position.
	if c.SceneWidth < SpriteMaxX+NewSprite().W || c.SceneHeight < NewSprite().Y+NewSprite().H {
		errors = append(errors, fmt.Sprintf("scene must be at least %dx%d",
			SpriteMaxX+NewSprite().W, NewSprite().Y+NewSprite().H))
	}
	if c.SerialPort != "" && c.BaudRate <= 0 {
		errors = append(errors, "baud rate must be positive")
	}
	if c.MirrorSpeed < -500 || c.MirrorSpeed > 500 {
		errors = append(errors, "mirror speed must be between -500 and 500")
	}

	return errors
}

// Environment overrides read by ApplyEnv
const (
	EnvCamera = "BLOBSLIDE_CAMERA"
	EnvSerial = "BLOBSLIDE_SERIAL"
)

// ApplyEnv overrides fields from environment variables when set.
// Returns an error for values that do not parse.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvCamera); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvCamera, v, err)
		}
		c.CameraID = id
	}
	if v := getenv(EnvSerial); v != "" {
		c.SerialPort = v
	}
	return nil
}
