package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/logger"
	"github.com/spigell/interview-assistant/internal/storage"
)

const (
	appName = "interview-assistant"

	defaultLogFile = appName + ".log"
)

type Config struct {
	LogFile string         `mapstructure:"log-file"`
	Storage *StorageConfig `mapstructure:"storage"`
	AI      *AIConfig      `mapstructure:"ai"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AIConfig struct {
	Provider     string           `mapstructure:"provider"`
	Timeout      time.Duration    `mapstructure:"timeout"`
	MaxLogLength int              `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig    `mapstructure:"gemini"`
	Vertex       *VertexConfig    `mapstructure:"vertex"`
	LangChain    *LangChainConfig `mapstructure:"langchain"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type VertexConfig struct {
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
	Model    string `mapstructure:"model"`
}

type LangChainConfig struct {
	Model string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "interview-assistant runs timed, AI-scored technical interviews in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadEnv, initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-assistant.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("log-file", defaultLogFile)
	viper.SetDefault("storage.driver", storage.DriverSQLite)
	viper.SetDefault("storage.dsn", storage.DefaultSQLitePath)
	viper.SetDefault("ai.provider", providerGemini)
	viper.SetDefault("ai.timeout", time.Minute)

	for key, env := range map[string]string{
		"storage.dsn":            "INTERVIEW_ASSISTANT_DSN",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.vertex.project":      "GOOGLE_CLOUD_PROJECT",
		"ai.vertex.location":     "GOOGLE_CLOUD_LOCATION",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
}

// loadEnv reads .env from the working directory when present.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(appName)
	}

	// The config file is optional; defaults and the environment are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	return config, nil
}

// newLogger builds the process logger. Commands that own the terminal pass a
// log file so output does not corrupt the screen.
func newLogger(outputs ...string) *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), outputs...)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}
