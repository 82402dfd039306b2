package container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"fscompare/adapters/canonical"
	"fscompare/adapters/classifier"
	"fscompare/adapters/excel"
	"fscompare/adapters/postgres"
	"fscompare/adapters/report"
	"fscompare/app"
	"fscompare/domain/crossval"
	"fscompare/domain/dataset"
	"fscompare/internal"
	"fscompare/internal/config"
	"fscompare/internal/testkit"
	"fscompare/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Ports
	Source     ports.DatasetSource
	Classifier ports.ClassifierPort
	RNG        ports.RNGPort
	Canonical  ports.CanonicalSetProvider
	Repository ports.ComparisonRepository
	Reporters  []ports.ReporterPort

	Service *app.ComparisonService
}

// New creates a container without a database; comparisons are kept in memory.
// Text reports go to out.
func New(cfg *config.Config, out io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if out == nil {
		out = os.Stdout
	}

	c := &Container{
		Config:     cfg,
		Logger:     internal.NewDefaultLogger(),
		Classifier: classifier.NewEngine(),
		RNG:        testkit.NewRNGAdapter(),
		Repository: testkit.NewInMemoryComparisonRepository(),
	}

	source, err := newRoutedSource(cfg)
	if err != nil {
		return nil, err
	}
	c.Source = source

	if cfg.Paths.CanonicalSetsFile != "" {
		provider, err := canonical.LoadFile(cfg.Paths.CanonicalSetsFile)
		if err != nil {
			return nil, err
		}
		c.Canonical = provider
	} else {
		c.Canonical = canonical.NewNamedProvider(canonical.DefaultNameSets())
	}

	c.Reporters, err = buildReporters(cfg.Run.Reports, cfg.Paths.ReportDir, out)
	if err != nil {
		return nil, err
	}

	c.buildService()
	return c, nil
}

// InitWithDatabase switches the repository to postgres
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.Repository = postgres.NewComparisonRepository(db)
	c.buildService()

	log.Printf("Container initialized successfully with database connection")
	return nil
}

// Connect opens the configured database, if any.
func (c *Container) Connect(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		return nil
	}
	dsn, err := c.Config.Database.DSN()
	if err != nil {
		return err
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return c.InitWithDatabase(db)
}

func (c *Container) buildService() {
	c.Service = app.NewComparisonService(
		c.Source,
		c.Classifier,
		c.RNG,
		c.Canonical,
		crossval.NewPlanner(c.Config.Run.MaxFolds),
		c.Repository,
		c.Logger,
		c.Reporters...,
	)
}

// ClassifierSpec returns the configured classifier.
func (c *Container) ClassifierSpec() ports.ClassifierSpec {
	spec := ports.ClassifierSpec{Name: c.Config.Run.Classifier, LossName: c.Config.Run.LossMetric}
	if spec.Name == classifier.KNearestNeighbours {
		spec.Params = map[string]float64{"k": float64(c.Config.Run.KNeighbours)}
	}
	return spec
}

// DefaultRequest builds a comparison request from the run configuration.
func (c *Container) DefaultRequest() app.ComparisonRequest {
	return app.ComparisonRequest{
		Dataset:     c.Config.Run.Dataset,
		FeatureSets: c.Config.Run.FeatureSets,
		Classifier:  c.ClassifierSpec(),
		NumRepeats:  c.Config.Run.NumRepeats,
		Seed:        c.Config.Run.Seed,
		Parallelism: c.Config.Run.Parallelism,
	}
}

// Close releases held resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func buildReporters(kinds []string, dir string, out io.Writer) ([]ports.ReporterPort, error) {
	var reporters []ports.ReporterPort
	for _, kind := range kinds {
		switch kind {
		case "text":
			reporters = append(reporters, report.NewTextReporter(out))
		case "markdown":
			reporters = append(reporters, report.NewMarkdownReporter(dir))
		case "boxplot":
			reporters = append(reporters, report.NewBoxPlotReporter(dir))
		case "xlsx":
			reporters = append(reporters, excel.NewExporter(dir))
		default:
			return nil, fmt.Errorf("unknown report kind %q", kind)
		}
	}
	if len(reporters) <= 1 {
		return reporters, nil
	}
	return []ports.ReporterPort{report.Multi(reporters)}, nil
}

// routedSource serves generated datasets by name and everything else from
// files under the data directory.
type routedSource struct {
	synthetic *testkit.SyntheticSource
	files     *excel.Source
}

func newRoutedSource(cfg *config.Config) (*routedSource, error) {
	synthetic, err := testkit.NewSyntheticSource()
	if err != nil {
		return nil, err
	}
	files := excel.NewSource(excel.SourceConfig{Root: cfg.Paths.DataDir, FeaturesFile: cfg.Paths.FeaturesFile})
	return &routedSource{synthetic: synthetic, files: files}, nil
}

func (s *routedSource) Load(ctx context.Context, selector string) (*dataset.Dataset, error) {
	if selector == testkit.SyntheticSelector {
		return s.synthetic.Load(ctx, selector)
	}
	return s.files.Load(ctx, selector)
}
