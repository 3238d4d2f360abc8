// seehuhn.de/go/brushmask - brush masks for image text removal
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config holds the settings shared by the brushmask commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/brushmask"
	"seehuhn.de/go/brushmask/session"
)

// Config holds the application configuration
type Config struct {
	Brush   BrushConfig   `json:"brush"`
	Display DisplayConfig `json:"display"`
	Service ServiceConfig `json:"service"`
	Output  OutputConfig  `json:"output"`
}

// BrushConfig holds the initial brush settings
type BrushConfig struct {
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`
}

// DisplayConfig describes the viewport the image is shown in
type DisplayConfig struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// ServiceConfig selects and configures the processing backend
type ServiceConfig struct {
	Mode           string `json:"mode"`
	URL            string `json:"url"`
	Listen         string `json:"listen"`
	ResultDir      string `json:"result_dir"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Operation      string `json:"operation"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Overlay   bool   `json:"overlay"`
}

// Service modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Brush: BrushConfig{
			Size:    brushmask.DefaultBrush.Size,
			Opacity: brushmask.DefaultBrush.Opacity,
			Color:   "#007bff",
		},
		Display: DisplayConfig{
			MaxWidth:  800,
			MaxHeight: 600,
		},
		Service: ServiceConfig{
			Mode:           ModeLocal,
			URL:            "http://localhost:5001",
			Listen:         ":5001",
			ResultDir:      "./processed",
			TimeoutSeconds: 120,
			Operation:      string(session.Remove),
		},
		Output: OutputConfig{
			OutputDir: "./output",
			Format:    "png",
			Quality:   95,
			Overlay:   true,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Settings missing
// from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads and validates the configuration in filename. If the file
// does not exist, the default configuration is used.
func Load(filename string) (*Config, error) {
	config, err := LoadFromFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		config = Default()
	} else if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Brush.Brush().Validate(); err != nil {
		return fmt.Errorf("brush: %w", err)
	}
	if _, err := c.Brush.OverlayColor(); err != nil {
		return err
	}

	if c.Display.MaxWidth < 0 || c.Display.MaxHeight < 0 {
		return fmt.Errorf("display.max_width and display.max_height must not be negative")
	}

	switch c.Service.Mode {
	case ModeLocal:
	case ModeRemote:
		if c.Service.URL == "" {
			return fmt.Errorf("service.url is required in remote mode")
		}
	default:
		return fmt.Errorf("service.mode must be %q or %q", ModeLocal, ModeRemote)
	}
	if c.Service.TimeoutSeconds < 1 {
		return fmt.Errorf("service.timeout_seconds must be positive")
	}
	if _, err := session.ParseOperation(c.Service.Operation); err != nil {
		return fmt.Errorf("service.operation: %w", err)
	}

	switch c.Output.Format {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("output.format must be one of png, jpg, webp")
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// Brush returns the configured brush.
func (b BrushConfig) Brush() brushmask.Brush {
	return brushmask.Brush{Size: b.Size, Opacity: b.Opacity}
}

// OverlayColor parses the configured overlay colour, given as "#rrggbb".
func (b BrushConfig) OverlayColor() (color.NRGBA, error) {
	s, ok := strings.CutPrefix(b.Color, "#")
	if !ok || len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("brush.color %q is not of the form #rrggbb", b.Color)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("brush.color %q is not of the form #rrggbb", b.Color)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Timeout returns the processing timeout.
func (s ServiceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "brushmask", "config.json")
}
