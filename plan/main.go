package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/brequin/brequin/regplan/availability"
	"github.com/brequin/brequin/regplan/config"
	"github.com/brequin/brequin/regplan/db"
	"github.com/brequin/brequin/regplan/planner"
	"github.com/brequin/brequin/regplan/requisite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configPath  string
	verbose     bool
	startUnits  int
	completed   []string
	courses     []string
	useTracker  bool
	printFormat string

	settings config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan courses term by term",
	Long: `Loads the stored requirement rows and plans every course term by term,
taking at most the configured number of courses per term and only courses
that still have seats on the student's Pass 1 registration day.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if settings, err = config.Load(configPath); err != nil {
			return err
		}
		if logger, err = settings.Logging.Build(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE:         runPlan,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "regplan.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().IntVarP(&startUnits, "units", "u", 0, "units completed before the first term")
	rootCmd.Flags().StringSliceVar(&completed, "completed", nil, "courses already completed")
	rootCmd.Flags().StringSliceVar(&courses, "courses", nil, "courses to plan (default: every stored course and its prerequisites)")
	rootCmd.Flags().BoolVar(&useTracker, "tracker", false, "add fill days derived from the seat tracker")
	rootCmd.Flags().StringVarP(&printFormat, "format", "f", "text", "output format: text, yaml or json")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, release, err := settings.Storage.Open(ctx)
	if err != nil {
		return err
	}
	defer release()

	requirements, err := requisite.NewRepository(store).LoadTrees(ctx)
	if err != nil {
		return err
	}

	calendar, err := loadCalendar()
	if err != nil {
		return err
	}

	termPlanner, err := planner.New(settings.Planner.Planner(), calendar, logger)
	if err != nil {
		return err
	}

	entries, planErr := termPlanner.Plan(planner.Request{
		StartUnits:   startUnits,
		Requirements: requirements,
		Completed:    completed,
		Courses:      courses,
	})
	if err := printEntries(cmd.OutOrStdout(), entries); err != nil {
		return err
	}

	var infeasible *planner.InfeasibleError
	if errors.As(planErr, &infeasible) {
		for _, unknown := range infeasible.Unknown {
			logger.Warn("Course needs prerequisites outside the catalog",
				zap.String("course", unknown.Course),
				zap.Strings("missing", unknown.Missing),
			)
		}
	}
	return planErr
}

// Configured fill days win over the ones derived from the tracker.
func loadCalendar() (availability.Calendar, error) {
	calendar := availability.Calendar{}
	if useTracker {
		records, err := db.TrackerFile{Path: settings.Availability.TrackerPath}.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load seat tracker: %w", err)
		}
		calendar = availability.NewTracker(records).Calendar(settings.Planner.EnrollmentWindowDays)
	}
	for course, day := range settings.Availability.Calendar() {
		calendar[course] = day
	}
	return calendar, nil
}

func printEntries(w io.Writer, entries []planner.Entry) error {
	switch printFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(entries)
	case "text":
		for _, entry := range entries {
			fmt.Fprintf(w, "\nTerm %d\n", entry.Term)
			fmt.Fprintf(w, "  Units before:     %d\n", entry.UnitsBefore)
			fmt.Fprintf(w, "  Registration day: %d\n", entry.RegistrationDay)
			for _, course := range entry.Courses {
				fmt.Fprintf(w, "   - %v\n", course)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", printFormat)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
