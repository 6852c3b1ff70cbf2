/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "goscreenwriter/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// GeometryConfig overrides individual values of the selected page preset.
// Zero values keep the preset; indents are keyed by line kind name
// ("scene-heading", "character", "parenthetical", "dialogue", "transition", "action", "empty").
type GeometryConfig struct {
	PageWidthIn  float64            `yaml:"page_width_in,omitempty"`
	PageHeightIn float64            `yaml:"page_height_in,omitempty"`
	MarginIn     float64            `yaml:"margin_in,omitempty"`
	LineHeightIn float64            `yaml:"line_height_in,omitempty"`
	Indents      map[string]float64 `yaml:"indents,omitempty"`
}

type LayoutConfig struct {
	Preset       string         `yaml:"preset"`   // "letter" | "a4"
	Measurer     string         `yaml:"measurer"` // "columns" | "courier-pdf" | "basicfont" | "ttf"
	CharsPerInch float64        `yaml:"chars_per_inch"`
	FontFile     string         `yaml:"font_file"`
	FontSizePt   float64        `yaml:"font_size_pt"`
	DPI          float64        `yaml:"dpi"`
	Geometry     GeometryConfig `yaml:"geometry"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Layout        LayoutConfig  `yaml:"layout"`
	Cache         CacheConfig   `yaml:"cache"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Layout:        LayoutConfig{Preset: "letter", Measurer: "columns", CharsPerInch: 10, FontSizePt: 12, DPI: 72},
		Cache:         CacheConfig{Enabled: true},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "GSW_CONFIG"
	EnvPagePreset   = "GSW_PAGE_PRESET"
	EnvMeasurer     = "GSW_MEASURER"
	EnvCharsPerInch = "GSW_CHARS_PER_INCH"
	EnvFontFile     = "GSW_FONT_FILE"
	EnvCache        = "GSW_CACHE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GSW_LOG_LEVEL"
	EnvLogFormat = "GSW_LOG_FORMAT"
	EnvLogSource = "GSW_LOG_SOURCE"
	EnvLogFile   = "GSW_LOG_FILE"
)

// ConfigPath returns the per-user config file path. GSW_CONFIG wins if set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoScreenwriter")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoScreenwriter")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "goscreenwriter")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "goscreenwriter")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return load(path, false)
}

// LoadFrom is Load for an explicit file, which must exist.
func LoadFrom(path string) (AppConfig, error) { return load(path, true) }

func load(path string, required bool) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case required || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the config as YAML to the user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the config as YAML to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// layout
	if v := strings.TrimSpace(src.Layout.Preset); v != "" {
		dst.Layout.Preset = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Layout.Measurer); v != "" {
		dst.Layout.Measurer = strings.ToLower(v)
	}
	if src.Layout.CharsPerInch > 0 {
		dst.Layout.CharsPerInch = src.Layout.CharsPerInch
	}
	if v := strings.TrimSpace(src.Layout.FontFile); v != "" {
		dst.Layout.FontFile = v
	}
	if src.Layout.FontSizePt > 0 {
		dst.Layout.FontSizePt = src.Layout.FontSizePt
	}
	if src.Layout.DPI > 0 {
		dst.Layout.DPI = src.Layout.DPI
	}
	dst.Layout.Geometry = src.Layout.Geometry
	// booleans: copy directly from src (file) so user preferences persist
	dst.Cache.Enabled = src.Cache.Enabled
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvPagePreset)); v != "" {
		cfg.Layout.Preset = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvMeasurer)); v != "" {
		cfg.Layout.Measurer = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCharsPerInch)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Layout.CharsPerInch = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFile)); v != "" {
		cfg.Layout.FontFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCache)); v != "" {
		cfg.Cache.Enabled = truthy(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// envOverrides maps config keys to the env vars that override them, in
// config file order.
var envOverrides = []struct{ key, env string }{
	{"logging.level", EnvLogLevel},
	{"logging.format", EnvLogFormat},
	{"logging.source", EnvLogSource},
	{"logging.file", EnvLogFile},
	{"layout.preset", EnvPagePreset},
	{"layout.measurer", EnvMeasurer},
	{"layout.chars_per_inch", EnvCharsPerInch},
	{"layout.font_file", EnvFontFile},
	{"cache.enabled", EnvCache},
}

// OverridableKeys lists the config keys that have an env override.
func OverridableKeys() []string {
	keys := make([]string, len(envOverrides))
	for i, o := range envOverrides {
		keys[i] = o.key
	}
	return keys
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	for _, o := range envOverrides {
		if o.key == key && os.Getenv(o.env) != "" {
			return o.env, true
		}
	}
	return "", false
}

// LogOptions converts the logging section for log.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}
