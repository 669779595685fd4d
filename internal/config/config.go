// Package config holds the static configuration surface of the monitor:
// numeric thresholds, color tables and paths, with defaults matching the
// tuning values the system shipped with. There is no dynamic
// reconfiguration protocol; a JSON file can override the defaults at
// startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"minewatch/internal/classify"
)

// Config is the full configuration for one monitor instance.
type Config struct {
	// Capture settings.
	CameraID    int    `json:"camera_id"`
	FrameWidth  int    `json:"frame_width"`
	FrameHeight int    `json:"frame_height"`
	FPS         int    `json:"fps"`
	Mirror      bool   `json:"mirror"`
	ImagePath   string `json:"image_path,omitempty"`

	// Detection thresholds.
	MinOreArea        float64 `json:"min_ore_area"`
	MinEquipmentArea  float64 `json:"min_equipment_area"`
	MinMotionArea     float64 `json:"min_motion_area"`
	Sensitivity       float64 `json:"sensitivity"`
	BackgroundRefresh int     `json:"background_refresh"`

	// Classification tables.
	OreTable       []classify.OreClass            `json:"ore_table"`
	EquipmentRules []classify.EquipmentRule       `json:"equipment_rules"`
	Helmet         classify.HelmetRule            `json:"helmet"`
	Environment    classify.EnvironmentThresholds `json:"environment"`

	// History caps.
	HistoryLimit   int `json:"history_limit"`
	ViolationLimit int `json:"violation_limit"`
	AlertLimit     int `json:"alert_limit"`

	// Alerting.
	ViolationCooldownSec int    `json:"violation_cooldown_sec"`
	HookDir              string `json:"hook_dir"`
	HookTimeoutMs        int    `json:"hook_timeout_ms"`

	// Server and storage.
	Addr      string `json:"addr"`
	DBPath    string `json:"db_path"`
	ReportDir string `json:"report_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CameraID:    0,
		FrameWidth:  640,
		FrameHeight: 480,
		FPS:         15,
		Mirror:      true,

		MinOreArea:        500,
		MinEquipmentArea:  1000,
		MinMotionArea:     1000,
		Sensitivity:       50,
		BackgroundRefresh: 30,

		OreTable:       classify.DefaultOreTable(),
		EquipmentRules: classify.DefaultEquipmentRules(),
		Helmet:         classify.DefaultHelmetRule(),
		Environment:    classify.DefaultEnvironmentThresholds(),

		HistoryLimit:   1000,
		ViolationLimit: 500,
		AlertLimit:     500,

		ViolationCooldownSec: 5,
		HookTimeoutMs:        5000,

		Addr:      ":8080",
		ReportDir: "reports",
	}
}

// Load reads a JSON config file and applies it over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
