package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"fscompare/app"
	"fscompare/internal/config"
	"fscompare/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fscompare",
		Short:         "Cross-validated comparison of feature sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCompareCmd(),
		newFeatureSetsCmd(),
		newFoldsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFlags mirror the run configuration; only flags set on the command line
// override the environment.
type runFlags struct {
	dataset      string
	dataDir      string
	featuresFile string
	featureSets  []string
	classifier   string
	loss         string
	k            int
	repeats      int
	maxFolds     int
	seed         int64
	parallelism  int
	reports      []string
	reportDir    string
	asJSON       bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "Dataset selector: 'synthetic' or a .xlsx/.csv path inside the data directory")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "./data", "Directory dataset paths are resolved against")
	cmd.Flags().StringVar(&f.featuresFile, "features-file", "", "Feature metadata table for csv datasets")
	cmd.Flags().StringSliceVar(&f.featureSets, "feature-sets", nil, "Feature-set names (default battery when empty)")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "Random seed for fold assignment")
	cmd.Flags().IntVar(&f.maxFolds, "max-folds", 10, "Upper bound on the number of folds")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print JSON instead of a table")
}

func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("dataset") {
		cfg.Run.Dataset = f.dataset
	}
	if changed("data-dir") {
		cfg.Paths.DataDir = f.dataDir
	}
	if changed("features-file") {
		cfg.Paths.FeaturesFile = f.featuresFile
	}
	if changed("feature-sets") {
		cfg.Run.FeatureSets = f.featureSets
	}
	if changed("classifier") {
		cfg.Run.Classifier = f.classifier
	}
	if changed("loss") {
		cfg.Run.LossMetric = f.loss
	}
	if changed("k") {
		cfg.Run.KNeighbours = f.k
	}
	if changed("repeats") {
		cfg.Run.NumRepeats = f.repeats
	}
	if changed("max-folds") {
		cfg.Run.MaxFolds = f.maxFolds
	}
	if changed("seed") {
		cfg.Run.Seed = f.seed
	}
	if changed("parallelism") {
		cfg.Run.Parallelism = f.parallelism
	}
	if changed("reports") {
		cfg.Run.Reports = f.reports
	}
	if changed("report-dir") {
		cfg.Paths.ReportDir = f.reportDir
	}
	return config.Validate(cfg)
}

func loadContainer(cmd *cobra.Command, flags *runFlags, out io.Writer) (*container.Container, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, err
	}
	c, err := container.New(cfg, out)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	if err := c.Connect(cmd.Context()); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func newCompareCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Cross-validate one classifier on each feature set and compare accuracies",
		Long: `Resolve each feature set against the dataset, run repeated stratified
k-fold cross-validation of the configured classifier on every subset, and
hand the aggregated accuracies to the configured reporters.

Example: fscompare compare --data-dir ./data --dataset hctsa.xlsx --classifier knn --k 5 --repeats 10 --reports text,markdown,boxplot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			reportOut := out
			if flags.asJSON {
				reportOut = io.Discard
			}
			c, err := loadContainer(cmd, flags, reportOut)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.Service.Run(cmd.Context(), c.DefaultRequest())
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(out, report)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.classifier, "classifier", "linearDiscriminant", "Classifier: nearestCentroid|knn|linearDiscriminant")
	cmd.Flags().StringVar(&flags.loss, "loss", "accuracy", "Loss metric: accuracy|balancedAccuracy")
	cmd.Flags().IntVar(&flags.k, "k", 3, "Neighbours for the knn classifier")
	cmd.Flags().IntVar(&flags.repeats, "repeats", 2, "Number of cross-validation repeats")
	cmd.Flags().IntVar(&flags.parallelism, "parallelism", 1, "Feature sets evaluated concurrently")
	cmd.Flags().StringSliceVar(&flags.reports, "reports", []string{"text"}, "Reporters: text,markdown,boxplot,xlsx")
	cmd.Flags().StringVar(&flags.reportDir, "report-dir", "./reports", "Directory for file reports")

	return cmd
}

func newFeatureSetsCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "feature-sets",
		Short: "Show the features each feature set resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			c, err := loadContainer(cmd, flags, io.Discard)
			if err != nil {
				return err
			}
			defer c.Close()

			summaries, err := c.Service.DescribeFeatureSets(cmd.Context(), c.Config.Run.Dataset, c.Config.Run.FeatureSets)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(out, summaries)
			}
			return writeFeatureSets(out, summaries)
		},
	}

	flags.register(cmd)
	return cmd
}

func newFoldsCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "folds",
		Short: "Show the fold count and stratified partitions a run would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			c, err := loadContainer(cmd, flags, io.Discard)
			if err != nil {
				return err
			}
			defer c.Close()

			plan, err := c.Service.PlanFolds(cmd.Context(), c.Config.Run.Dataset, c.Config.Run.NumRepeats, c.Config.Run.Seed)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(out, plan)
			}
			return writeFoldPlan(out, plan)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.repeats, "repeats", 2, "Number of cross-validation repeats")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFeatureSets(w io.Writer, summaries []app.FeatureSetSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRULE\tFEATURES\tDROPPED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", s.Name, s.Rule, s.FeatureCount, s.Dropped)
	}
	return tw.Flush()
}

func writeFoldPlan(w io.Writer, plan *app.FoldPlan) error {
	counts := make([]string, len(plan.ClassCounts))
	for i, n := range plan.ClassCounts {
		counts[i] = fmt.Sprintf("%d:%d", i+1, n)
	}
	fmt.Fprintf(w, "folds=%d repeats=%d classes=[%s]\n", plan.NumFolds, plan.NumRepeats, strings.Join(counts, " "))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REPEAT\tFOLD\tTEST SIZE\tSAMPLES")
	for r, a := range plan.Repeats {
		for k := 0; k < a.NumFolds(); k++ {
			fold := a.Fold(k)
			fmt.Fprintf(tw, "%d\t%d\t%d\t%v\n", r+1, k+1, len(fold), fold)
		}
	}
	return tw.Flush()
}
