package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/upload"
)

const (
	app       = "talent-matcher"
	envPrefix = "TALENT_MATCHER"

	defaultAppName = "Talent Matching Platform"
)

type Config struct {
	APIURL       string        `mapstructure:"api-url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user-agent"`
	Token        string        `mapstructure:"token"`
	TokenFile    string        `mapstructure:"token-file"`
	SessionFile  string        `mapstructure:"session-file"`
	DevLogin     bool          `mapstructure:"dev-login"`
	Upload       *UploadConfig `mapstructure:"upload"`
	DownloadDir  string        `mapstructure:"download-dir"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	AppName      string        `mapstructure:"app-name"`
}

type UploadConfig struct {
	MaxFileSize  int64    `mapstructure:"max-file-size"`
	AllowedTypes []string `mapstructure:"allowed-types"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-matcher is a cli for uploading resumes and matching them against job descriptions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	configureViper(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", talent.DefaultAPIURL, "base url of the matching service")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
}

// configureViper registers defaults and the environment mapping:
// upload.max-file-size is read from TALENT_MATCHER_UPLOAD_MAX_FILE_SIZE.
func configureViper(v *viper.Viper) {
	v.SetDefault("api-url", talent.DefaultAPIURL)
	v.SetDefault("timeout", "30s")
	v.SetDefault("user-agent", "spigell/"+app)
	v.SetDefault("token", "")
	v.SetDefault("token-file", "")
	v.SetDefault("session-file", "")
	v.SetDefault("dev-login", true)
	v.SetDefault("upload.max-file-size", upload.DefaultMaxFileSize)
	v.SetDefault("upload.allowed-types", strings.Join(upload.DefaultAllowedTypes, ","))
	v.SetDefault("download-dir", ".")
	v.SetDefault("max-log-length", 200)
	v.SetDefault("app-name", defaultAppName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// .env only fills variables that are not set already.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig reads the explicit config file, or talent-matcher.yaml from the
// working directory when it exists. Only an explicit file is required.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if file == "" && errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("reading config: %w", err)
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Upload == nil {
		config.Upload = &UploadConfig{}
	}
	if strings.TrimSpace(config.AppName) == "" {
		config.AppName = defaultAppName
	}

	return config, nil
}
