// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Demo names accepted by DemoConfig.Start.
const (
	DemoShapes = "shapes"
	DemoEarth  = "earth"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Demo      DemoConfig      `yaml:"demo"`
	Sky       SkyConfig       `yaml:"sky"`
	Earth     EarthConfig     `yaml:"earth"`
	Controls  ControlsConfig  `yaml:"controls"`
	Data      DataConfig      `yaml:"data"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	FPSLimit      int    `yaml:"fps_limit"`
	MSAA          int    `yaml:"msaa"` // samples, 0 disables
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DemoConfig selects which scene is shown first.
type DemoConfig struct {
	Start string `yaml:"start"`
}

// SkyConfig holds the skybox rotation rates (radians per second) and the
// names of the objects the sun stabilizer binds to.
//
// When PlaceSun is set the sun sprite is moved to the given azimuth and
// elevation (degrees) at SunDistance before the first frame, overriding
// its position in the scene file.
type SkyConfig struct {
	RotationRateX float32 `yaml:"rotation_rate_x"`
	RotationRateY float32 `yaml:"rotation_rate_y"`
	SkyboxName    string  `yaml:"skybox_name"`
	SunSpriteName string  `yaml:"sun_sprite_name"`
	SunLightName  string  `yaml:"sun_light_name"`
	PlaceSun      bool    `yaml:"place_sun"`
	SunAzimuth    float32 `yaml:"sun_azimuth"`
	SunElevation  float32 `yaml:"sun_elevation"`
	SunDistance   float32 `yaml:"sun_distance"`
}

// EarthConfig holds planet and atmosphere parameters.
type EarthConfig struct {
	Scene            string  `yaml:"scene"`
	Radius           float32 `yaml:"radius"`
	AtmosphereRadius float32 `yaml:"atmosphere_radius"`
	SpinRateX        float32 `yaml:"spin_rate_x"`
	SpinRateY        float32 `yaml:"spin_rate_y"`
}

// ControlsConfig holds fly camera settings.
type ControlsConfig struct {
	MovementSpeed float32 `yaml:"movement_speed"`
	RollSpeed     float32 `yaml:"roll_speed"`
	DragToLook    bool    `yaml:"drag_to_look"`
}

// DataConfig holds asset search roots. Later roots win.
type DataConfig struct {
	AssetRoots []string `yaml:"asset_roots"`
}

// TelemetryConfig holds the optional lighting telemetry server settings.
type TelemetryConfig struct {
	Addr     string        `yaml:"addr"` // empty disables the server
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			FPSLimit:      0,
			MSAA:          4,
			ScreenshotDir: "screenshots",
		},
		Demo: DemoConfig{
			Start: DemoEarth,
		},
		Sky: SkyConfig{
			RotationRateX: 0.005,
			RotationRateY: -0.1,
			SkyboxName:    "SkyBox",
			SunSpriteName: "sun_sprite",
			SunLightName:  "sun_light",
			PlaceSun:      false,
			SunAzimuth:    180,
			SunElevation:  10,
			SunDistance:   400,
		},
		Earth: EarthConfig{
			Scene:            "earth/scene.yaml",
			Radius:           10.0,
			AtmosphereRadius: 10.4,
			SpinRateX:        -0.001,
			SpinRateY:        0.05,
		},
		Controls: ControlsConfig{
			MovementSpeed: 4.0,
			RollSpeed:     0.1,
			DragToLook:    true,
		},
		Data: DataConfig{
			AssetRoots: []string{"assets"},
		},
		Telemetry: TelemetryConfig{
			Addr:     "",
			Interval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	switch c.Demo.Start {
	case DemoShapes, DemoEarth:
	default:
		return fmt.Errorf("unknown demo %q (want %q or %q)", c.Demo.Start, DemoShapes, DemoEarth)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Earth.AtmosphereRadius < c.Earth.Radius {
		return fmt.Errorf("atmosphere radius %.2f is inside the planet (radius %.2f)",
			c.Earth.AtmosphereRadius, c.Earth.Radius)
	}
	if c.Sky.PlaceSun && c.Sky.SunDistance <= 0 {
		return fmt.Errorf("sun distance must be positive, got %.2f", c.Sky.SunDistance)
	}
	if len(c.Data.AssetRoots) == 0 {
		return fmt.Errorf("no asset roots configured")
	}
	return nil
}
