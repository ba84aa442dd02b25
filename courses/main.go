package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/brequin/brequin/regplan/catalog"
	"github.com/brequin/brequin/regplan/config"
	"github.com/brequin/brequin/regplan/requisite"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	verbose    bool
	inputPath  string
	fetch      bool
	replace    bool
	printJSON  bool

	settings config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "courses [COURSE...]",
	Short: "Compile prerequisite text into requirement rows",
	Long: `Compiles the prerequisite text of each course into a requirement tree and
stores the trees as flat rows in the configured store.

Texts come from a YAML or JSON file mapping course codes to prerequisite text
(--input), from the course catalog (--fetch), or both.`,
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
	RunE:         compileCourses,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "regplan.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "YAML or JSON file of course: prerequisite text")
	rootCmd.Flags().BoolVar(&fetch, "fetch", false, "fetch prerequisite text of the given courses from the catalog")
	rootCmd.Flags().BoolVar(&replace, "replace", false, "replace every stored row instead of appending")
	rootCmd.Flags().BoolVar(&printJSON, "json", false, "print the compiled trees as JSON")
}

func compileCourses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	texts, err := readTexts(ctx, args)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no prerequisite text to compile; pass --input or --fetch with courses")
	}

	policy, err := settings.Compiler.Policy()
	if err != nil {
		return err
	}
	compiler := requisite.NewCompiler(policy, settings.Compiler.AllowDegraded, logger)
	trees, compileErr := compiler.CompileCatalog(texts)
	for _, err := range multierr.Errors(compileErr) {
		logger.Error("Unable to compile prerequisites", zap.Error(err))
	}

	store, release, err := settings.Storage.Open(ctx)
	if err != nil {
		return err
	}
	defer release()

	repository := requisite.NewRepository(store)
	if replace {
		err = repository.ReplaceTrees(ctx, trees)
	} else {
		owners := lo.Keys(trees)
		slices.Sort(owners)
		for _, owner := range owners {
			if err = repository.SaveTree(ctx, owner, trees[owner]); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	logger.Info("Stored prerequisites",
		zap.Int("courses", len(trees)),
		zap.String("driver", settings.Storage.Driver),
		zap.Bool("replace", replace),
	)

	if printJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(trees); err != nil {
			return err
		}
	}

	if compileErr != nil {
		return fmt.Errorf("%d courses failed to compile", len(multierr.Errors(compileErr)))
	}
	return nil
}

func readTexts(ctx context.Context, courses []string) (map[string]string, error) {
	texts := make(map[string]string)

	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		// JSON is a subset of YAML
		if err := yaml.Unmarshal(data, &texts); err != nil {
			return nil, fmt.Errorf("failed to parse input %v: %w", inputPath, err)
		}
	}

	if fetch {
		collector := catalog.NewCollector(catalog.HTTPFetcher{}, settings.Catalog.Options(), logger)
		fetched, err := collector.Prerequisites(ctx, courses)
		if err != nil {
			return nil, err
		}
		for course, text := range fetched {
			texts[course] = text
		}
	}

	return texts, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
