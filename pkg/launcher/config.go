package launcher

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rag-tools/rag-launcher-go/pkg/errors"
)

// Duration is a time.Duration that unmarshals from YAML strings like "5s".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the launcher configuration. Every knob has a default that
// reproduces the stock behavior, so running without a config file needs no
// setup.
type Config struct {
	Interpreter           string   `yaml:"interpreter,omitempty"`
	WorkingDirectory      string   `yaml:"working_directory,omitempty"`
	CredentialsFile       string   `yaml:"credentials_file,omitempty"`
	Manifest              string   `yaml:"manifest,omitempty"`
	BackendEntryPoint     string   `yaml:"backend_entry_point,omitempty"`
	FrontendEntryPoint    string   `yaml:"frontend_entry_point,omitempty"`
	RequiredKeys          []string `yaml:"required_keys,omitempty"`
	MinimumRuntimeVersion string   `yaml:"minimum_runtime_version,omitempty"`
	StartupGracePeriod    Duration `yaml:"startup_grace_period,omitempty"`
	GracefulTimeout       Duration `yaml:"graceful_timeout,omitempty"`
	BackendURL            string   `yaml:"backend_url,omitempty"`
	LogLevel              string   `yaml:"log_level,omitempty"`
	LogFormat             string   `yaml:"log_format,omitempty"`
	AutoConfirm           bool     `yaml:"auto_confirm,omitempty"`
	SkipBrowser           bool     `yaml:"skip_browser,omitempty"`
}

// DefaultConfig returns the configuration matching the stock RAG service
// layout.
func DefaultConfig() Config {
	config := Config{}
	setConfigDefaults(&config)
	return config
}

// LoadConfigFromFile loads launcher configuration from a YAML file and
// fills unset fields with defaults.
func LoadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read configuration file", err).WithContext("filename", filename)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML configuration", err).WithContext("filename", filename)
	}

	setConfigDefaults(&config)

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setConfigDefaults(config *Config) {
	if config.Interpreter == "" {
		config.Interpreter = "python3"
	}
	if config.CredentialsFile == "" {
		config.CredentialsFile = ".env"
	}
	if config.Manifest == "" {
		config.Manifest = "requirements.txt"
	}
	if config.BackendEntryPoint == "" {
		config.BackendEntryPoint = "main.py"
	}
	if config.FrontendEntryPoint == "" {
		config.FrontendEntryPoint = "index.html"
	}
	if len(config.RequiredKeys) == 0 {
		config.RequiredKeys = []string{"SUPABASE_URL", "SUPABASE_KEY", "GEMINI_API_KEY"}
	}
	if config.MinimumRuntimeVersion == "" {
		config.MinimumRuntimeVersion = "3.8"
	}
	if config.StartupGracePeriod <= 0 {
		config.StartupGracePeriod = Duration(5 * time.Second)
	}
	if config.GracefulTimeout <= 0 {
		config.GracefulTimeout = Duration(5 * time.Second)
	}
	if config.BackendURL == "" {
		config.BackendURL = "http://localhost:8000"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
}

// ValidateConfig validates the configuration structure.
func ValidateConfig(config *Config) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}
	if config.Interpreter == "" {
		return errors.NewValidationError("interpreter cannot be empty", nil)
	}
	if config.BackendEntryPoint == "" {
		return errors.NewValidationError("backend entry point cannot be empty", nil)
	}
	if config.FrontendEntryPoint == "" {
		return errors.NewValidationError("front-end entry point cannot be empty", nil)
	}
	if config.Manifest == "" {
		return errors.NewValidationError("dependency manifest cannot be empty", nil)
	}
	if config.StartupGracePeriod <= 0 {
		return errors.NewValidationError("startup grace period must be positive", nil)
	}
	if config.GracefulTimeout <= 0 {
		return errors.NewValidationError("graceful timeout must be positive", nil)
	}
	return nil
}
