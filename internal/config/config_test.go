package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func newBoundViper(t *testing.T, args ...string) (*pflag.FlagSet, func() (*Config, error)) {
	t.Helper()
	v := NewViper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(fs, v); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return fs, func() (*Config, error) { return Load(v) }
}

func TestLoadDefaults(t *testing.T) {
	_, load := newBoundViper(t)
	cfg, err := load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.KaggleBin != "kaggle" {
		t.Errorf("expected default kaggle bin 'kaggle', got %q", cfg.KaggleBin)
	}
	if cfg.ProxyMode != "system" {
		t.Errorf("expected default proxy mode 'system', got %q", cfg.ProxyMode)
	}
	if cfg.MaxParallel != 0 {
		t.Errorf("expected MaxParallel 0, got %d", cfg.MaxParallel)
	}
	if cfg.IgnoreFailures {
		t.Error("IgnoreFailures should default to false")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATASET_FETCH_MAX_PARALLEL", "2")
	t.Setenv("DATASET_FETCH_OUTPUT_ROOT", "/from/env")

	_, load := newBoundViper(t, "--output-root", "/from/flag")
	cfg, err := load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OutputRoot != "/from/flag" {
		t.Errorf("flag should win over env, got %q", cfg.OutputRoot)
	}
	if cfg.MaxParallel != 2 {
		t.Errorf("expected MaxParallel from env = 2, got %d", cfg.MaxParallel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fetch.yaml")
	content := "output-root: /datasets\nproxy-mode: no-proxy\naws-region: us-west-2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, load := newBoundViper(t, "--config", path)
	cfg, err := load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OutputRoot != "/datasets" {
		t.Errorf("expected OutputRoot from file, got %q", cfg.OutputRoot)
	}
	if cfg.ProxyMode != "no-proxy" {
		t.Errorf("expected ProxyMode from file, got %q", cfg.ProxyMode)
	}
	if cfg.AWSRegion != "us-west-2" {
		t.Errorf("expected AWSRegion from file, got %q", cfg.AWSRegion)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, load := newBoundViper(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "empty kaggle bin", mutate: func(c *Config) { c.KaggleBin = "" }, wantErr: "kaggle-bin"},
		{name: "negative parallelism", mutate: func(c *Config) { c.MaxParallel = -1 }, wantErr: "max-parallel"},
		{name: "unknown proxy mode", mutate: func(c *Config) { c.ProxyMode = "socks" }, wantErr: "unsupported proxy mode"},
		{name: "proxy port too large", mutate: func(c *Config) { c.ProxyPort = 70000 }, wantErr: "proxy-port"},
		{name: "half static credentials", mutate: func(c *Config) { c.AWSAccessKeyID = "AKIA" }, wantErr: "must be set together"},
		{
			name: "anonymous with static credentials",
			mutate: func(c *Config) {
				c.AWSAnonymous = true
				c.AWSAccessKeyID = "AKIA"
				c.AWSSecretAccessKey = "secret"
			},
			wantErr: "aws-anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProxyActive(t *testing.T) {
	env := map[string]string{"HTTPS_PROXY": "http://proxy:3128"}
	getenv := func(k string) string { return env[k] }
	empty := func(string) string { return "" }

	tests := []struct {
		mode   string
		getenv func(string) string
		want   bool
	}{
		{"no-proxy", getenv, false},
		{"", getenv, false},
		{"system", getenv, true},
		{"system", empty, false},
		{"basic", empty, true},
		{"ntlm", empty, true},
	}

	for _, tt := range tests {
		cfg := &Config{ProxyMode: tt.mode}
		if got := cfg.ProxyActive(tt.getenv); got != tt.want {
			t.Errorf("ProxyActive(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.env")
	if err := os.WriteFile(path, []byte("DATASET_FETCH_TEST_TOKEN=from-file\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("DATASET_FETCH_TEST_TOKEN", "")
	os.Unsetenv("DATASET_FETCH_TEST_TOKEN")

	loaded, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if loaded != path {
		t.Errorf("expected loaded path %q, got %q", path, loaded)
	}
	if got := os.Getenv("DATASET_FETCH_TEST_TOKEN"); got != "from-file" {
		t.Errorf("expected variable from env file, got %q", got)
	}
}

func TestLoadEnvFileExistingVariableWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.env")
	if err := os.WriteFile(path, []byte("DATASET_FETCH_TEST_KEEP=from-file\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("DATASET_FETCH_TEST_KEEP", "from-env")

	if _, err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if got := os.Getenv("DATASET_FETCH_TEST_KEEP"); got != "from-env" {
		t.Errorf("existing environment should win, got %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	// Explicit path must exist
	if _, err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for explicit missing env file")
	}

	// Default path is optional
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	loaded, err := LoadEnvFile("")
	if err != nil {
		t.Errorf("expected no error when default .env is absent, got %v", err)
	}
	if loaded != "" {
		t.Errorf("expected nothing loaded, got %q", loaded)
	}
}

func TestKaggleCredentialPath(t *testing.T) {
	t.Setenv("KAGGLE_CONFIG_DIR", "/opt/kaggle")
	if got := KaggleCredentialPath(); got != filepath.Join("/opt/kaggle", "kaggle.json") {
		t.Errorf("expected KAGGLE_CONFIG_DIR to be honored, got %q", got)
	}

	t.Setenv("KAGGLE_CONFIG_DIR", "")
	if got := KaggleCredentialPath(); !strings.HasSuffix(got, filepath.Join(".kaggle", "kaggle.json")) {
		t.Errorf("expected ~/.kaggle/kaggle.json, got %q", got)
	}
}
