package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runlog/internal/analysis"
)

func setHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 60.0, cfg.Athlete.RestingHR)
	assert.Equal(t, 190.0, cfg.Athlete.MaxHR)
	assert.Equal(t, "male", cfg.Athlete.Gender)
	assert.Equal(t, analysis.DefaultFitnessWindow, cfg.Engine.FitnessWindowDays)
	assert.Equal(t, "km", cfg.Display.DistanceUnit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Strava.ClientID)
	assert.NoError(t, cfg.Validate())
}

func TestGetConfigDir(t *testing.T) {
	dir := setHome(t)

	got, err := GetConfigDir()

	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestLoadMissingFile(t *testing.T) {
	setHome(t)

	_, err := Load()

	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestLoadOrDefault(t *testing.T) {
	setHome(t)
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadOrDefault()

	require.NoError(t, err)
	assert.Equal(t, 190.0, cfg.Athlete.MaxHR)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := setHome(t)
	data := `{"athlete": {"resting_hr": 48, "zone_limits": [120, 140, 155, 170]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(data), 0600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 48.0, cfg.Athlete.RestingHR)
	assert.Equal(t, 190.0, cfg.Athlete.MaxHR)
	assert.Equal(t, "male", cfg.Athlete.Gender)
	assert.Equal(t, []float64{120, 140, 155, 170}, cfg.Athlete.ZoneLimits)
	assert.Equal(t, 84, cfg.Engine.FitnessWindowDays)
}

func TestLoadEnvOverrides(t *testing.T) {
	setHome(t)
	require.NoError(t, Save(&Config{Strava: StravaConfig{ClientID: "file-id", ClientSecret: "file-secret"}}))
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.Strava.ClientID)
	assert.Equal(t, "file-secret", cfg.Strava.ClientSecret)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := setHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600))

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestCreateExample(t *testing.T) {
	setHome(t)

	require.NoError(t, CreateExample())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "YOUR_CLIENT_ID", cfg.Strava.ClientID)
	assert.False(t, cfg.Athlete.Zones.IsZero())

	// existing file is left alone
	cfg.Athlete.RestingHR = 42
	require.NoError(t, Save(cfg))
	require.NoError(t, CreateExample())
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 42.0, cfg.Athlete.RestingHR)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{
			name:        "max below resting",
			modify:      func(c *Config) { c.Athlete.MaxHR = 50 },
			errContains: "must be greater than",
		},
		{
			name:        "equal max and resting",
			modify:      func(c *Config) { c.Athlete.MaxHR = c.Athlete.RestingHR },
			errContains: "must be greater than",
		},
		{
			name:        "unknown gender",
			modify:      func(c *Config) { c.Athlete.Gender = "other" },
			errContains: "athlete.gender",
		},
		{
			name:        "unsorted zone limits",
			modify:      func(c *Config) { c.Athlete.ZoneLimits = []float64{140, 120} },
			errContains: "ascending",
		},
		{
			name:        "too many zone limits",
			modify:      func(c *Config) { c.Athlete.ZoneLimits = []float64{1, 2, 3, 4, 5, 6} },
			errContains: "at most 5",
		},
		{
			name:        "bad timezone",
			modify:      func(c *Config) { c.Engine.Timezone = "Mars/Olympus" },
			errContains: "engine.timezone",
		},
		{
			name:        "bad distance unit",
			modify:      func(c *Config) { c.Display.DistanceUnit = "furlongs" },
			errContains: "display.distance_unit",
		},
		{
			name:        "bad log level",
			modify:      func(c *Config) { c.LogLevel = "loud" },
			errContains: "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()

			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidateStrava(t *testing.T) {
	tests := []struct {
		name        string
		strava      StravaConfig
		expectError bool
	}{
		{name: "valid", strava: StravaConfig{ClientID: "12345", ClientSecret: "secret"}},
		{name: "missing id", strava: StravaConfig{ClientSecret: "secret"}, expectError: true},
		{name: "placeholder id", strava: StravaConfig{ClientID: "YOUR_CLIENT_ID", ClientSecret: "secret"}, expectError: true},
		{name: "placeholder secret", strava: StravaConfig{ClientID: "12345", ClientSecret: "YOUR_CLIENT_SECRET"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Strava: tt.strava}
			err := cfg.ValidateStrava()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Athlete.Gender = "Female"
	cfg.Athlete.ZoneLimits = []float64{120, 140}
	cfg.Athlete.MonthAvgRHR = 52

	p := cfg.Profile()

	assert.Equal(t, analysis.GenderFemale, p.Gender)
	assert.Equal(t, 60.0, p.RestingHR)
	assert.Equal(t, 52.0, p.MonthAvgRHR)
	assert.Equal(t, []float64{120, 140}, p.ZoneLimits)

	// profile does not alias the config slice
	p.ZoneLimits[0] = 1
	assert.Equal(t, 120.0, cfg.Athlete.ZoneLimits[0])
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.NotNil(t, loc)

	cfg.Engine.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
