package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/tlegrand/emploi-assistant/internal/ai"
	"github.com/tlegrand/emploi-assistant/internal/ai/gemini"
	"github.com/tlegrand/emploi-assistant/internal/logger"
	"github.com/tlegrand/emploi-assistant/internal/secrets"
	"github.com/tlegrand/emploi-assistant/internal/source"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "emploi-assistant"
)

type Config struct {
	Sources *source.Config `mapstructure:"sources"`
	AI      *AIConfig      `mapstructure:"ai"`
	Search  *SearchConfig  `mapstructure:"search"`
	Server  *ServerConfig  `mapstructure:"server"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type SearchConfig struct {
	Title          string   `mapstructure:"title"`
	Location       string   `mapstructure:"location"`
	RadiusKM       int      `mapstructure:"radius-km"`
	Keywords       []string `mapstructure:"keywords"`
	LimitPerSource int      `mapstructure:"limit-per-source"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "emploi-assistant searches french job boards and chats about your CV",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional unless one was named explicitly: sources
	// and the gemini key can come entirely from the environment.
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

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// newGenerator builds the LLM client from the ai config block. The API key is
// resolved from the config file, a key file, or the GEMINI_API_KEY variable.
func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key, ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(log, "gemini", gcfg.Model)

	return gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
}

func newRegistry(cfg *Config, log *zap.Logger) *source.Registry {
	if cfg == nil || cfg.Sources == nil {
		return source.NewRegistry(source.Config{}, log)
	}
	return source.NewRegistry(*cfg.Sources, log)
}
