package config

import (
	"fmt"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds the client configuration, resolved from defaults, the
// optional config file and environment variables, in that order.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Cloud   CloudConfig   `mapstructure:"cloud"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	// Endpoint is the MAST server base URL
	Endpoint string `mapstructure:"endpoint"`
	// Resolver is the name-resolution service identifier on the portal
	Resolver string `mapstructure:"resolver"`
	// Timeout applies to every portal and service request
	Timeout time.Duration `mapstructure:"timeout"`
	// Token is the MAST API token, normally bound from $MAST_API_TOKEN
	Token string `mapstructure:"token"`
}

type CloudConfig struct {
	Provider string `mapstructure:"provider"`
	Profile  string `mapstructure:"profile"`
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the built-in configuration without consulting
// files or the environment.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		// Defaults are static; failing to unmarshal them is a programming error
		panic(fmt.Sprintf("error unmarshaling default config: %v", err))
	}

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	loadEnvFile()

	v := viper.New()

	if err := setupViperConfig(v, configFile); err != nil {
		return nil, err
	}

	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warnln("Error loading .env file")
		}
	}
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) error {
	setDefaults(v)

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if usr, err := user.Current(); err == nil {
		v.AddConfigPath(filepath.Join(usr.HomeDir, ".config", "mastquery"))
	}

	return nil
}

// bindEnvironmentVariables binds all environment variables to viper
func bindEnvironmentVariables(v *viper.Viper) {
	v.SetEnvPrefix("MAST")
	v.AutomaticEnv()

	// Historical variable names kept as-is
	v.BindEnv("server.token", "MAST_API_TOKEN")
	v.BindEnv("server.endpoint", "MAST_SERVER")
	v.BindEnv("logging.level", "MAST_LOG_LEVEL")
	v.BindEnv("cloud.profile", "AWS_PROFILE")
	v.BindEnv("cloud.region", "AWS_REGION")
}

func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setupLogging(config *Config) error {
	level, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Logging.Level, err)
	}
	logrus.SetLevel(level)

	if config.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.endpoint", "https://mast.stsci.edu")
	v.SetDefault("server.resolver", "Mast.Name.Lookup")
	v.SetDefault("server.timeout", 600*time.Second)
	v.SetDefault("cloud.provider", "AWS")
	v.SetDefault("cloud.region", "us-east-1")
	v.SetDefault("cloud.bucket", "stpubdata")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the resolved configuration for values that cannot work.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Server.Endpoint)
	if err != nil || len(parsed.Scheme) == 0 || len(parsed.Host) == 0 {
		return fmt.Errorf("invalid server endpoint: %q", c.Server.Endpoint)
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}

	return nil
}

// GetServerHostname returns the hostname part of the configured endpoint,
// used as the token store key.
func (c *Config) GetServerHostname() string {
	parsed, err := url.Parse(c.Server.Endpoint)
	if err != nil {
		return c.Server.Endpoint
	}
	return parsed.Hostname()
}
