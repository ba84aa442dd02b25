package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brequin/brequin/regplan/availability"
	"github.com/brequin/brequin/regplan/db"
	"github.com/brequin/brequin/regplan/planner"
	"github.com/brequin/brequin/regplan/requisite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(DatabaseConnectionStringEnv, "")

	// Act
	config, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.Equal(t, planner.DefaultConfig(), config.Planner.Planner())
}

func TestLoadOverridesDefaults(t *testing.T) {
	// Arrange
	t.Setenv(DatabaseConnectionStringEnv, "")
	path := writeConfig(t, `
planner:
  per_term_cap: 3
  pull_forward: transitive
  registration_day_breakpoints:
    - {min_units: 90, day: 2}
    - {min_units: 0, day: 7}
compiler:
  comma_policy: uniform
  allow_degraded: true
storage:
  driver: sqlite
  path: regplan.db
availability:
  fill_days:
    UWP 101: 3
    STA 013: null
logging:
  level: debug
`)

	// Act
	config, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, config.Planner.PerTermCap)
	assert.Equal(t, 4, config.Planner.UnitValue)
	assert.Equal(t, availability.Standing{{MinUnits: 90, Day: 2}, {MinUnits: 0, Day: 7}}, config.Planner.RegistrationDayBreakpoints)
	assert.Equal(t, planner.PullForwardTransitive, config.Planner.Planner().PullForward)
	assert.True(t, config.Compiler.AllowDegraded)
	policy, err := config.Compiler.Policy()
	require.NoError(t, err)
	assert.Equal(t, requisite.UniformPolicyName, policy.Name())
	assert.Equal(t, DriverSQLite, config.Storage.Driver)
	assert.Equal(t, availability.Calendar{"UWP 101": 3}, config.Availability.Calendar())
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
	assert.Equal(t, []string{"ECL"}, config.Catalog.Subjects)
}

func TestLoadEnvironmentOverridesDSN(t *testing.T) {
	// Arrange
	t.Setenv(DatabaseConnectionStringEnv, "postgres://localhost/regplan")
	path := writeConfig(t, "storage:\n  driver: postgres\n  dsn: postgres://elsewhere/regplan\n")

	// Act
	config, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/regplan", config.Storage.DSN)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "planner:\n  per_term_limit: 3\n"},
		{"zero cap", "planner:\n  per_term_cap: 0\n"},
		{"unknown policy", "compiler:\n  comma_policy: greedy\n"},
		{"unknown pull forward", "planner:\n  pull_forward: eager\n"},
		{"unknown driver", "storage:\n  driver: mongo\n"},
		{"postgres without dsn", "storage:\n  driver: postgres\n"},
		{"fill day outside window", "availability:\n  fill_days:\n    UWP 101: 20\n"},
		{"breakpoints without zero tier", "planner:\n  registration_day_breakpoints:\n    - {min_units: 90, day: 2}\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"bad yaml", "planner: [\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(DatabaseConnectionStringEnv, "")
			_, err := Load(writeConfig(t, test.content))
			assert.Error(t, err)
		})
	}
}

func TestStorageOpen(t *testing.T) {
	ctx := context.Background()

	// Act
	table, closeTable, err := StorageConfig{Driver: DriverCSV, Path: filepath.Join(t.TempDir(), "rows.csv")}.Open(ctx)
	require.NoError(t, err)
	defer closeTable()
	lite, closeLite, err := StorageConfig{Driver: DriverSQLite, Path: ":memory:"}.Open(ctx)
	require.NoError(t, err)
	defer closeLite()

	// Assert
	assert.IsType(t, &db.Table{}, table)
	assert.IsType(t, &db.Lite{}, lite)
}

func TestLoggingBuild(t *testing.T) {
	// Act
	logger, err := LoggingConfig{Level: "warn", Format: "json"}.Build(false)
	require.NoError(t, err)
	verbose, err := LoggingConfig{Level: "warn", Format: "console"}.Build(true)
	require.NoError(t, err)

	// Assert
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}
