package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "LOG_LEVEL", "WEATHER_TIMEOUT", "CITIES_FILE", "PANEL_NOMINAL_POWER", "PANEL_EFFICIENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, "configs/cities.txt", cfg.Cities.File)
	assert.Equal(t, 330.0, cfg.Panel.NominalPowerW)
	assert.Equal(t, 18.5, cfg.Panel.EfficiencyPct)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WEATHER_TIMEOUT", "3s")
	t.Setenv("PANEL_NOMINAL_POWER", "450")
	t.Setenv("PANEL_EFFICIENCY", "21.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, 450.0, cfg.Panel.NominalPowerW)
	assert.Equal(t, 21.5, cfg.Panel.EfficiencyPct)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_MalformedValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("WEATHER_TIMEOUT", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "WEATHER_TIMEOUT")
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("PANEL_NOMINAL_POWER", "")
	require.NoError(t, os.Unsetenv("OPENWEATHER_API_KEY"))
	require.NoError(t, os.Unsetenv("PANEL_NOMINAL_POWER"))

	require.NoError(t, os.WriteFile(".env", []byte("OPENWEATHER_API_KEY=from-dotenv\nPANEL_NOMINAL_POWER=400\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Weather.APIKey)
	assert.Equal(t, 400.0, cfg.Panel.NominalPowerW)
}

func TestLoadConfig_UnreadableDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "abc123")

	// a directory named .env opens but cannot be read
	require.NoError(t, os.Mkdir(".env", 0o700))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8080
		cfg.Weather.APIKey = "key"
		cfg.Weather.Timeout = time.Second
		cfg.Panel.NominalPowerW = 330
		cfg.Panel.EfficiencyPct = 18.5
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.Weather.APIKey = " " }, wantErr: "OPENWEATHER_API_KEY"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "SERVER_PORT"},
		{name: "zero timeout", mutate: func(c *Config) { c.Weather.Timeout = 0 }, wantErr: "WEATHER_TIMEOUT"},
		{name: "bad efficiency", mutate: func(c *Config) { c.Panel.EfficiencyPct = 40 }, wantErr: "invalid default panel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the original one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
