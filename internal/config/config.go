package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"runlog/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Athlete  AthleteConfig `json:"athlete"`
	Engine   EngineConfig  `json:"engine"`
	Strava   StravaConfig  `json:"strava"`
	Display  DisplayConfig `json:"display"`
	LogLevel string        `json:"log_level"`
}

// AthleteConfig holds the physiological profile used for load calculations
type AthleteConfig struct {
	RestingHR   float64             `json:"resting_hr"`
	MaxHR       float64             `json:"max_hr"`
	VO2Max      float64             `json:"vo2max"`
	Gender      string              `json:"gender"`
	Zones       analysis.ZoneBounds `json:"zones"`
	ZoneLimits  []float64           `json:"zone_limits,omitempty"`
	MonthAvgRHR float64             `json:"month_avg_rhr,omitempty"`
	MonthAvgHRV float64             `json:"month_avg_hrv,omitempty"`
}

// EngineConfig holds analysis settings
type EngineConfig struct {
	FitnessWindowDays int    `json:"fitness_window_days"`
	Timezone          string `json:"timezone"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// Environment overrides
const (
	EnvHome         = "RUNLOG_HOME"
	EnvLogLevel     = "RUNLOG_LOG_LEVEL"
	EnvClientID     = "STRAVA_CLIENT_ID"
	EnvClientSecret = "STRAVA_CLIENT_SECRET"
)

const (
	configDirName  = ".runlog"
	configFileName = "config.json"
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 60,
			MaxHR:     190,
			VO2Max:    45,
			Gender:    string(analysis.GenderMale),
		},
		Engine: EngineConfig{
			FitnessWindowDays: analysis.DefaultFitnessWindow,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
		},
		LogLevel: "info",
	}
}

// Load reads the configuration from the config directory.
// A .env file in the working directory and the process environment override
// values from the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// LoadOrDefault is Load that falls back to DefaultConfig (with environment
// overrides) when no config file exists yet.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		def := DefaultConfig()
		def.applyEnv()
		return &def, nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Athlete.RestingHR == 0 {
		c.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Athlete.Gender == "" {
		c.Athlete.Gender = defaults.Athlete.Gender
	}
	if c.Engine.FitnessWindowDays == 0 {
		c.Engine.FitnessWindowDays = defaults.Engine.FitnessWindowDays
	}
	if c.Display.DistanceUnit == "" {
		c.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.Strava.ClientID = getEnv(EnvClientID, c.Strava.ClientID)
	c.Strava.ClientSecret = getEnv(EnvClientSecret, c.Strava.ClientSecret)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Save writes the configuration to the config directory
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	example.Athlete.Zones = analysis.ZoneBounds{
		Z1Upper: 130,
		Z2Lower: 131, Z2Upper: 145,
		Z3Lower: 146, Z3Upper: 160,
		Z4Lower: 161, Z4Upper: 175,
		Z5Lower: 176,
	}

	return Save(&example)
}

// Validate checks the athlete and engine settings
func (c *Config) Validate() error {
	a := c.Athlete
	if a.RestingHR <= 0 || a.MaxHR <= 0 {
		return errors.New("athlete.resting_hr and athlete.max_hr must be positive")
	}
	if a.MaxHR <= a.RestingHR {
		return fmt.Errorf("athlete.max_hr (%v) must be greater than athlete.resting_hr (%v)", a.MaxHR, a.RestingHR)
	}
	if g := analysis.Gender(strings.ToLower(a.Gender)); g != "" && g != analysis.GenderMale && g != analysis.GenderFemale {
		return fmt.Errorf("athlete.gender must be \"male\" or \"female\", got %q", a.Gender)
	}
	if a.VO2Max < 0 {
		return fmt.Errorf("athlete.vo2max must not be negative, got %v", a.VO2Max)
	}
	if len(a.ZoneLimits) > 5 {
		return fmt.Errorf("athlete.zone_limits has %d entries, at most 5 allowed", len(a.ZoneLimits))
	}
	if !sort.Float64sAreSorted(a.ZoneLimits) {
		return errors.New("athlete.zone_limits must be ascending")
	}

	if c.Engine.FitnessWindowDays < 0 {
		return fmt.Errorf("engine.fitness_window_days must not be negative, got %d", c.Engine.FitnessWindowDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}

	return nil
}

// ValidateStrava checks that Strava credentials are configured
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// Profile builds the engine profile from the athlete settings
func (c *Config) Profile() analysis.UserProfile {
	a := c.Athlete
	limits := make([]float64, len(a.ZoneLimits))
	copy(limits, a.ZoneLimits)

	return analysis.UserProfile{
		RestingHR:   a.RestingHR,
		MaxHR:       a.MaxHR,
		VO2Max:      a.VO2Max,
		Gender:      analysis.Gender(strings.ToLower(a.Gender)),
		Zones:       a.Zones,
		ZoneLimits:  limits,
		MonthAvgRHR: a.MonthAvgRHR,
		MonthAvgHRV: a.MonthAvgHRV,
	}
}

// Location resolves the timezone used for "today". Empty means the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Engine.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return nil, fmt.Errorf("engine.timezone %q: %w", c.Engine.Timezone, err)
	}
	return loc, nil
}

// Today returns the current date in the configured timezone
func (c *Config) Today() time.Time {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}
	return analysis.Day(time.Now().In(loc))
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// GetConfigDir returns the path to the config directory.
// RUNLOG_HOME overrides the default ~/.runlog.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}
