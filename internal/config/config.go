// Package config provides configuration management for dataset-fetch.
//
// Settings come from command-line flags, DATASET_FETCH_* environment variables
// and an optional config file, merged by viper in that order of precedence.
// The dataset lists themselves are fixed and never read from configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rescale/dataset-fetch/internal/constants"
)

// Keys used for flags, environment variables and config file entries.
const (
	KeyConfigFile     = "config"
	KeyEnvFile        = "env-file"
	KeyOutputRoot     = "output-root"
	KeyKaggleBin      = "kaggle-bin"
	KeyMaxParallel    = "max-parallel"
	KeyPlain          = "plain"
	KeyIgnoreFailures = "ignore-failures"
	KeyVerbose        = "verbose"
	KeyDebug          = "debug"

	KeyProxyMode     = "proxy-mode"
	KeyProxyHost     = "proxy-host"
	KeyProxyPort     = "proxy-port"
	KeyProxyUser     = "proxy-user"
	KeyProxyPassword = "proxy-password"
	KeyNoProxy       = "no-proxy"

	KeyAWSRegion          = "aws-region"
	KeyAWSProfile         = "aws-profile"
	KeyAWSEndpoint        = "aws-endpoint"
	KeyAWSAnonymous       = "aws-anonymous"
	KeyAWSAccessKeyID     = "aws-access-key-id"
	KeyAWSSecretAccessKey = "aws-secret-access-key"

	KeyAzureSASToken = "azure-sas-token"
	KeyAzureEndpoint = "azure-endpoint"
)

// Config holds the resolved runtime settings.
type Config struct {
	// Output settings
	OutputRoot     string // Prefix for relative destinations ("" = current directory)
	KaggleBin      string // Name or path of the kaggle executable
	MaxParallel    int    // 0 = one worker per job
	Plain          bool   // Force single-line progress output even on a terminal
	IgnoreFailures bool   // Exit 0 even when some jobs failed
	Verbose        bool

	// Proxy settings
	ProxyMode     string // "no-proxy", "ntlm", "basic", "system"
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string
	NoProxy       string // Comma-separated list of hosts to bypass proxy

	// S3 source settings. Credentials are passed through, never managed.
	AWSRegion          string
	AWSProfile         string
	AWSEndpoint        string // Custom endpoint (path-style), e.g. a local S3 emulator
	AWSAnonymous       bool   // Unsigned requests for public buckets
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Azure Blob source settings
	AzureSASToken string // Appended to the service URL when set
	AzureEndpoint string // Overrides https://<account>.blob.core.windows.net
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		KaggleBin: constants.KaggleBinary,
		ProxyMode: "system",
	}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyKaggleBin, d.KaggleBin)
	v.SetDefault(KeyProxyMode, d.ProxyMode)
	v.SetDefault(KeyMaxParallel, 0)
}

// NewViper creates a viper instance wired for DATASET_FETCH_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the optional config file named by KeyConfigFile and resolves a Config.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		OutputRoot:     v.GetString(KeyOutputRoot),
		KaggleBin:      v.GetString(KeyKaggleBin),
		MaxParallel:    v.GetInt(KeyMaxParallel),
		Plain:          v.GetBool(KeyPlain),
		IgnoreFailures: v.GetBool(KeyIgnoreFailures),
		Verbose:        v.GetBool(KeyVerbose) || v.GetBool(KeyDebug),

		ProxyMode:     strings.ToLower(v.GetString(KeyProxyMode)),
		ProxyHost:     v.GetString(KeyProxyHost),
		ProxyPort:     v.GetInt(KeyProxyPort),
		ProxyUser:     v.GetString(KeyProxyUser),
		ProxyPassword: v.GetString(KeyProxyPassword),
		NoProxy:       v.GetString(KeyNoProxy),

		AWSRegion:          v.GetString(KeyAWSRegion),
		AWSProfile:         v.GetString(KeyAWSProfile),
		AWSEndpoint:        v.GetString(KeyAWSEndpoint),
		AWSAnonymous:       v.GetBool(KeyAWSAnonymous),
		AWSAccessKeyID:     v.GetString(KeyAWSAccessKeyID),
		AWSSecretAccessKey: v.GetString(KeyAWSSecretAccessKey),

		AzureSASToken: v.GetString(KeyAzureSASToken),
		AzureEndpoint: v.GetString(KeyAzureEndpoint),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.KaggleBin == "" {
		return fmt.Errorf("kaggle-bin must not be empty")
	}
	if c.MaxParallel < 0 {
		return fmt.Errorf("max-parallel must be 0 (one worker per job) or positive, got %d", c.MaxParallel)
	}
	switch c.ProxyMode {
	case "", "no-proxy", "system", "basic", "ntlm":
	default:
		return fmt.Errorf("unsupported proxy mode: %s", c.ProxyMode)
	}
	if c.ProxyPort < 0 || c.ProxyPort > 65535 {
		return fmt.Errorf("proxy-port out of range: %d", c.ProxyPort)
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		return fmt.Errorf("aws-access-key-id and aws-secret-access-key must be set together")
	}
	if c.AWSAnonymous && c.AWSAccessKeyID != "" {
		return fmt.Errorf("aws-anonymous cannot be combined with static AWS credentials")
	}
	return nil
}

// ProxyActive reports whether requests will be sent through a proxy.
func (c *Config) ProxyActive(getenv func(string) string) bool {
	switch c.ProxyMode {
	case "no-proxy", "":
		return false
	case "system":
		return getenv("HTTP_PROXY") != "" || getenv("HTTPS_PROXY") != "" ||
			getenv("http_proxy") != "" || getenv("https_proxy") != ""
	default:
		return true
	}
}
