package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobcoach"
)

type Config struct {
	JobTech   *JobTechConfig   `mapstructure:"jobtech"`
	Search    *SearchConfig    `mapstructure:"search"`
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	Taxonomy  *TaxonomyConfig  `mapstructure:"taxonomy"`
	Exclude   *ExcludeConfig   `mapstructure:"exclude"`
	Metrics   *MetricsConfig   `mapstructure:"metrics"`
}

type JobTechConfig struct {
	URL        string        `mapstructure:"url"`
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user-agent"`
}

type SearchConfig struct {
	City  string `mapstructure:"city"`
	Count int    `mapstructure:"count"`
	TopK  int    `mapstructure:"top-k"`
}

type EmbeddingConfig struct {
	Provider   string        `mapstructure:"provider"`
	Dimension  int           `mapstructure:"dimension"`
	Seed       uint64        `mapstructure:"seed"`
	MaxRetries int           `mapstructure:"max-retries"`
	Backoff    time.Duration `mapstructure:"backoff"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey        string        `mapstructure:"api-key"`
	APIKeyFile    string        `mapstructure:"api-key-file"`
	Model         string        `mapstructure:"model"`
	BatchSize     int           `mapstructure:"batch-size"`
	Concurrency   int           `mapstructure:"concurrency"`
	MaxRetryDelay time.Duration `mapstructure:"max-retry-delay"`
}

type TaxonomyConfig struct {
	Path             string `mapstructure:"path"`
	SkillsPath       string `mapstructure:"skills-path"`
	PrimaryLanguage  string `mapstructure:"primary-language"`
	FallbackLanguage string `mapstructure:"fallback-language"`
	TopSkills        int    `mapstructure:"top-skills"`
}

type ExcludeConfig struct {
	Employers []string `mapstructure:"employers"`
	File      string   `mapstructure:"file"`
}

type MetricsConfig struct {
	// Textfile receives the collected metrics in the prometheus text format on exit.
	Textfile string `mapstructure:"textfile"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobcoach searches Swedish job postings and answers questions about them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := map[string]string{
		"embedding.gemini.api-key":      "GEMINI_API_KEY",
		"embedding.gemini.api-key-file": "JOBCOACH_GEMINI_API_KEY_FILE",
		"jobtech.api-key":               "JOBTECH_API_KEY",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobcoach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringSlice("skip-filter", nil, "filters to disable for this run (duplicates, employers, exclude_file)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("skip-filter", rootCmd.PersistentFlags().Lookup("skip-filter"))
}

func setDefaults() {
	viper.SetDefault("jobtech.url", "https://jobsearch.api.jobtechdev.se")
	viper.SetDefault("jobtech.timeout", "15s")
	viper.SetDefault("search.count", 20)
	viper.SetDefault("search.top-k", 10)
	viper.SetDefault("embedding.provider", "local")
	viper.SetDefault("embedding.max-retries", 3)
	viper.SetDefault("embedding.backoff", "2s")
	viper.SetDefault("embedding.gemini.model", "gemini-embedding-001")
	viper.SetDefault("embedding.gemini.max-retry-delay", "30s")
	viper.SetDefault("taxonomy.path", "ssyk-level-4-groups-with-related-skills.json")
	viper.SetDefault("taxonomy.skills-path", "skills.json")
	viper.SetDefault("taxonomy.top-skills", 10)
}

func initConfig() {
	// Missing .env is fine; keys may come from the real environment.
	_ = godotenv.Load()

	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
