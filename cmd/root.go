package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spigell/intervu/internal/question"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "intervu"
)

type Config struct {
	StorePath string           `mapstructure:"store-path"`
	Interview *InterviewConfig `mapstructure:"interview"`
}

type InterviewConfig struct {
	Role string `mapstructure:"role"`
	// Questions carries the per-tier override lists as raw config data;
	// bank() decodes it into a QuestionsConfig.
	Questions map[string]any `mapstructure:"questions"`
}

type QuestionsConfig struct {
	Easy   []string `mapstructure:"easy"`
	Medium []string `mapstructure:"medium"`
	Hard   []string `mapstructure:"hard"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "intervu is a cli for running scripted technical interviews and reviewing the results",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("store-path", "INTERVU_STORE_PATH"); err != nil {
		log.Fatalf("binding INTERVU_STORE_PATH environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is intervu.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// An explicitly requested config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// The config file is optional; defaults cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
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

// storePath resolves the sqlite database location: config or environment
// first, then ~/.intervu/intervu.db.
func (c *Config) storePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}

	if fromEnv := viper.GetString("store-path"); fromEnv != "" {
		return fromEnv
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return app + ".db"
	}
	return filepath.Join(home, "."+app, app+".db")
}

// role resolves the interview role asked about in the greeting.
func (c *Config) role() string {
	if c.Interview != nil && c.Interview.Role != "" {
		return c.Interview.Role
	}
	return ""
}

// bank builds the question bank, applying configured per-tier overrides.
func (c *Config) bank() (*question.Bank, error) {
	bank := question.Default()
	if c.Interview == nil || c.Interview.Questions == nil {
		return bank, nil
	}

	var questions QuestionsConfig
	if err := mapstructure.Decode(c.Interview.Questions, &questions); err != nil {
		return nil, fmt.Errorf("decoding interview questions: %w", err)
	}

	return bank.WithOverrides(map[question.Difficulty][]string{
		question.Easy:   questions.Easy,
		question.Medium: questions.Medium,
		question.Hard:   questions.Hard,
	}), nil
}
