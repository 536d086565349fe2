package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the global YAML configuration of scanio-fxcop.
type Config struct {
	Scanio      Scanio      `yaml:"scanio"`
	Logger      Logger      `yaml:"logger"`
	FxCopPlugin FxCopPlugin `yaml:"fxcop_plugin"`
}

// Scanio holds the folders the tool works with.
type Scanio struct {
	Mode            string `yaml:"mode"`
	HomeFolder      string `yaml:"home_folder"`
	PluginsFolder   string `yaml:"plugins_folder"`
	ResultsFolder   string `yaml:"results_folder"`
	TempFolder      string `yaml:"temp_folder"`
	ArtifactsFolder string `yaml:"artifacts_folder"`
}

// Logger holds hclog options. Pointer fields distinguish "unset" from false.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// FxCopPlugin holds defaults for FxCop runs.
type FxCopPlugin struct {
	Language        string      `yaml:"language"`          // cs or vbnet
	TimeoutMinutes  int         `yaml:"timeout_minutes"`   // used when no timeout property is set
	WorkDir         string      `yaml:"work_dir"`          // ruleset and raw report location
	AllowNonWindows bool        `yaml:"allow_non_windows"` // run FxCopCmd outside of Windows (e.g. through wine)
	Rules           []FxCopRule `yaml:"rules"`
}

// FxCopRule enables one FxCop check and optionally maps it to an external rule key.
type FxCopRule struct {
	Key     string `yaml:"key"`
	CheckID string `yaml:"check_id"`
}

// ValidateConfigPath checks that path names a file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the global configuration. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	return cfg, nil
}
