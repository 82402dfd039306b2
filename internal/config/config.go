package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"fscompare/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Run       RunConfig    `validate:"required"`
	Server    ServerConfig `validate:"required"`
	Database  DatabaseConfig
	Paths     PathConfig
	Profiling ProfilingConfig
}

// RunConfig holds the defaults of a comparison run
type RunConfig struct {
	Dataset     string   `validate:"required"`
	Classifier  string   `validate:"required,oneof=nearestCentroid knn linearDiscriminant"`
	LossMetric  string   `validate:"required,oneof=accuracy balancedAccuracy"`
	KNeighbours int      `validate:"gte=1,lte=50"`
	FeatureSets []string `validate:"dive,required"`
	NumRepeats  int      `validate:"gte=1,lte=100"`
	MaxFolds    int      `validate:"gte=2,lte=100"`
	Seed        int64
	Parallelism int      `validate:"gte=0,lte=64"`
	Reports     []string `validate:"dive,oneof=text markdown boxplot xlsx"`
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// comparisons in memory.
type DatabaseConfig struct {
	URL     string `validate:"omitempty,url"`
	SSLMode string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

// DSN returns URL with SSLMode applied, unless the URL already sets sslmode.
func (d DatabaseConfig) DSN() (string, error) {
	if d.URL == "" || d.SSLMode == "" {
		return d.URL, nil
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return "", errors.Wrap(err, "invalid DATABASE_URL")
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// PathConfig holds file system paths
type PathConfig struct {
	DataDir           string `validate:"required"`
	FeaturesFile      string
	CanonicalSetsFile string
	ReportDir         string `validate:"required"`
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// LoadDotEnv loads .env files into the environment; missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Run:       *loadRunConfig(),
		Server:    *loadServerConfig(),
		Database:  *loadDatabaseConfig(),
		Paths:     *loadPathConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadRunConfig() *RunConfig {
	return &RunConfig{
		Dataset:     getEnvOrDefault("DATASET", "synthetic"),
		Classifier:  getEnvOrDefault("CLASSIFIER", "linearDiscriminant"),
		LossMetric:  getEnvOrDefault("LOSS_METRIC", "accuracy"),
		KNeighbours: getEnvIntOrDefault("KNN_K", 3),
		FeatureSets: getEnvListOrDefault("FEATURE_SETS", nil),
		NumRepeats:  getEnvIntOrDefault("NUM_REPEATS", 2),
		MaxFolds:    getEnvIntOrDefault("MAX_FOLDS", 10),
		Seed:        int64(getEnvIntOrDefault("SEED", 1)),
		Parallelism: getEnvIntOrDefault("PARALLELISM", 1),
		Reports:     getEnvListOrDefault("REPORTS", []string{"text"}),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:     os.Getenv("DATABASE_URL"),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		DataDir:           getEnvOrDefault("DATA_DIR", "./data"),
		FeaturesFile:      getEnvOrDefault("FEATURES_FILE", ""),
		CanonicalSetsFile: getEnvOrDefault("CANONICAL_SETS_FILE", ""),
		ReportDir:         getEnvOrDefault("REPORT_DIR", "./reports"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

var validate = validator.New()

// Validate checks struct tags and reports the first failing fields.
func Validate(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ConfigInvalid(err.Error())
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return errors.ConfigInvalid(strings.Join(msgs, "; "))
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
