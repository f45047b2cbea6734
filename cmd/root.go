package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillmatch/internal/classifier"
	"github.com/spigell/skillmatch/internal/embedding"
	"github.com/spigell/skillmatch/internal/matching"
)

const (
	app = "skillmatch"
)

type Config struct {
	Embedding  embedding.ProviderConfig `mapstructure:"embedding"`
	Artifacts  ArtifactsConfig          `mapstructure:"artifacts"`
	Matching   matching.Weights         `mapstructure:"matching"`
	Training   TrainingConfig           `mapstructure:"training"`
	Classifier ClassifierConfig         `mapstructure:"classifier"`
	Profile    ProfileConfig            `mapstructure:"profile"`
	Ranking    RankingConfig            `mapstructure:"ranking"`
}

type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

type TrainingConfig struct {
	Dataset string `mapstructure:"dataset"`

	classifier.TrainerConfig `mapstructure:",squash"`
}

type ClassifierConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

type ProfileConfig struct {
	SummaryLimit int `mapstructure:"summary-limit"`
}

type RankingConfig struct {
	TopK        int      `mapstructure:"top-k"`
	MinScore    float64  `mapstructure:"min-score"`
	MinWords    int      `mapstructure:"min-words"`
	ExcludeFile string   `mapstructure:"exclude-file"`
	ExcludeIDs  []string `mapstructure:"exclude-ids"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch scores résumés against job descriptions and extracts skill profiles",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embedding.api-key-file", "SKILLMATCH_EMBEDDING_API_KEY_FILE"); err != nil {
		log.Fatalf("binding SKILLMATCH_EMBEDDING_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	trainer := classifier.DefaultTrainerConfig()

	v.SetDefault("embedding.provider", embedding.ProviderHashing)
	v.SetDefault("embedding.dimensions", 384)
	v.SetDefault("embedding.max-retries", 2)
	v.SetDefault("embedding.cache-size", 1024)
	v.SetDefault("embedding.max-log-length", 200)

	v.SetDefault("artifacts.dir", "models")

	weights := matching.DefaultWeights()
	v.SetDefault("matching.tfidf-weight", weights.TFIDF)
	v.SetDefault("matching.embedding-weight", weights.Embedding)

	v.SetDefault("training.dataset", "data/skills_dataset.csv")
	v.SetDefault("training.test-size", trainer.TestSize)
	v.SetDefault("training.seed", trainer.Seed)
	v.SetDefault("training.max-iter", trainer.MaxIter)
	v.SetDefault("training.tolerance", trainer.Tolerance)
	v.SetDefault("training.regularization", trainer.Regularization)
	v.SetDefault("training.max-features", trainer.Vectorizer.MaxFeatures)
	v.SetDefault("training.ngram-max", trainer.Vectorizer.NgramMax)
	v.SetDefault("training.min-df", trainer.Vectorizer.MinDF)

	v.SetDefault("classifier.threshold", trainer.Threshold)

	v.SetDefault("profile.summary-limit", 2000)

	v.SetDefault("ranking.top-k", 10)
	v.SetDefault("ranking.min-score", 0.0)
	v.SetDefault("ranking.min-words", 1)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file the defaults apply. A broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	// The decision threshold is an inference setting stored with the model.
	config.Training.Threshold = config.Classifier.Threshold
	return config, nil
}
