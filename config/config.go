package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/brequin/brequin/regplan/availability"
	"github.com/brequin/brequin/regplan/catalog"
	"github.com/brequin/brequin/regplan/planner"
	"github.com/brequin/brequin/regplan/requisite"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Overrides storage.dsn when set.
const DatabaseConnectionStringEnv = "DATABASE_CONNECTION_STRING"

type Config struct {
	Planner      PlannerConfig      `yaml:"planner"`
	Compiler     CompilerConfig     `yaml:"compiler"`
	Storage      StorageConfig      `yaml:"storage"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Availability AvailabilityConfig `yaml:"availability"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type PlannerConfig struct {
	PerTermCap                 int                   `yaml:"per_term_cap"`
	UnitValue                  int                   `yaml:"unit_value"`
	EnrollmentWindowDays       int                   `yaml:"enrollment_window_days"`
	RegistrationDayBreakpoints availability.Standing `yaml:"registration_day_breakpoints"`
	PullForward                string                `yaml:"pull_forward"`
}

type CompilerConfig struct {
	CommaPolicy   string `yaml:"comma_policy"`
	AllowDegraded bool   `yaml:"allow_degraded"`
}

type CatalogConfig struct {
	Workers         int      `yaml:"workers"`
	PrerequisiteURL string   `yaml:"prerequisite_url"`
	SeatsURL        string   `yaml:"seats_url"`
	TermCode        string   `yaml:"term_code"`
	Subjects        []string `yaml:"subjects"`
}

type AvailabilityConfig struct {
	// FillDays maps a course to the Pass 1 day it fills; null means never.
	FillDays    map[string]*int `yaml:"fill_days"`
	TrackerPath string          `yaml:"tracker_path"`
}

func DefaultConfig() Config {
	defaults := planner.DefaultConfig()
	return Config{
		Planner: PlannerConfig{
			PerTermCap:                 defaults.PerTermCap,
			UnitValue:                  defaults.UnitValue,
			EnrollmentWindowDays:       defaults.WindowDays,
			RegistrationDayBreakpoints: defaults.Standing,
			PullForward:                string(defaults.PullForward),
		},
		Compiler: CompilerConfig{
			CommaPolicy: requisite.CatalogPolicyName,
		},
		Storage: StorageConfig{
			Driver: DriverCSV,
			Path:   "requirements.csv",
		},
		Catalog: CatalogConfig{
			Workers:         5,
			PrerequisiteURL: "https://catalog.ucdavis.edu/search/?P=%s",
			SeatsURL:        "https://registrar-apps.ucdavis.edu/courses/search/course_search_results.cfm?termCode=%s&subject=%s",
			TermCode:        "202603",
			Subjects:        []string{"ECL"},
		},
		Availability: AvailabilityConfig{
			TrackerPath: "course_open_tracker.csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default; lists and maps in the file replace the default ones. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := decode(data, &config); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %v: %w", path, err)
			}
		}
	}

	if dsn := os.Getenv(DatabaseConnectionStringEnv); dsn != "" {
		config.Storage.DSN = dsn
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func decode(data []byte, config *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ZeroFields:  true,
		ErrorUnused: true,
		Result:      config,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs error
	errs = multierr.Append(errs, c.Planner.Planner().Validate())
	if _, err := c.Compiler.Policy(); err != nil {
		errs = multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, c.Storage.Validate())
	if c.Catalog.Workers < 1 {
		errs = multierr.Append(errs, fmt.Errorf("catalog workers must be at least 1, got %d", c.Catalog.Workers))
	}
	errs = multierr.Append(errs, c.Availability.Calendar().Validate(c.Planner.EnrollmentWindowDays))
	errs = multierr.Append(errs, c.Logging.Validate())
	return errs
}

func (c PlannerConfig) Planner() planner.Config {
	return planner.Config{
		PerTermCap:  c.PerTermCap,
		UnitValue:   c.UnitValue,
		WindowDays:  c.EnrollmentWindowDays,
		Standing:    c.RegistrationDayBreakpoints,
		PullForward: planner.PullForward(c.PullForward),
	}
}

func (c CompilerConfig) Policy() (requisite.CommaPolicy, error) {
	return requisite.PolicyByName(c.CommaPolicy)
}

func (c CatalogConfig) Options() catalog.Options {
	return catalog.Options{
		Workers:         c.Workers,
		PrerequisiteURL: c.PrerequisiteURL,
		SeatsURL:        c.SeatsURL,
		TermCode:        c.TermCode,
	}
}

func (c AvailabilityConfig) Calendar() availability.Calendar {
	return availability.NewCalendar(c.FillDays)
}
