package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"time"

	"github.com/brequin/brequin/regplan/availability"
	"github.com/brequin/brequin/regplan/catalog"
	"github.com/brequin/brequin/regplan/config"
	"github.com/brequin/brequin/regplan/db"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath   string
	verbose      bool
	subjects     []string
	snapshotPath string
	observedOn   string

	settings config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "seats",
	Short: "Record open seats and derive fill days",
	Long: `Collects the section rows of each subject from the class search, adds the
day's open seat totals to the seat tracker and prints the fill day of every
course that has run out of seats.`,
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
	RunE:         recordSeats,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "regplan.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().StringSliceVarP(&subjects, "subjects", "s", nil, "subjects to collect (default: catalog.subjects)")
	rootCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "also write the collected section rows to this CSV file")
	rootCmd.Flags().StringVar(&observedOn, "date", "", "date of the snapshot as YYYY-MM-DD (default: today)")
}

func recordSeats(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if observedOn != "" {
		var err error
		if date, err = time.Parse(db.DateLayout, observedOn); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	if len(subjects) == 0 {
		subjects = settings.Catalog.Subjects
	}

	collector := catalog.NewCollector(catalog.HTTPFetcher{}, settings.Catalog.Options(), logger)
	seats, err := collector.Seats(cmd.Context(), subjects)
	if err != nil {
		return err
	}
	logger.Info("Collected sections", zap.Int("sections", len(seats)), zap.Strings("subjects", subjects))

	if snapshotPath != "" {
		if err := writeSnapshot(snapshotPath, seats); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	trackerFile := db.TrackerFile{Path: settings.Availability.TrackerPath}
	records, err := trackerFile.Load()
	if err != nil {
		return fmt.Errorf("failed to load seat tracker: %w", err)
	}
	tracker := availability.NewTracker(records)
	tracker.Observe(date, catalog.OpenByCourse(seats))
	if err := trackerFile.Save(tracker.Records()); err != nil {
		return fmt.Errorf("failed to save seat tracker: %w", err)
	}

	printCalendar(cmd.OutOrStdout(), tracker.Calendar(settings.Planner.EnrollmentWindowDays))
	return nil
}

func writeSnapshot(path string, seats []catalog.Seat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(catalog.SeatHeader); err != nil {
		return err
	}
	for _, seat := range seats {
		if err := writer.Write(seat.Record()); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func printCalendar(w io.Writer, calendar availability.Calendar) {
	courses := lo.Keys(calendar)
	slices.Sort(courses)
	for _, course := range courses {
		fmt.Fprintf(w, "%v\tfills on day %d\n", course, calendar[course])
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
