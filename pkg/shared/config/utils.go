package config

import (
	"reflect"
	"strings"
)

const (
	DefaultLanguage       = "cs"
	DefaultTimeoutMinutes = 60
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	fields := strings.Split(fieldPath, ".")
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr && val.IsNil() {
		return defaultValue
	}

	for _, field := range fields {
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}

		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		return val.Bool()
	}

	return defaultValue
}

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// GetScanioHome returns the home folder.
func GetScanioHome(cfg *Config) string {
	return cfg.Scanio.HomeFolder
}

// GetScanioPluginsHome returns the folder with plugin binaries.
func GetScanioPluginsHome(cfg *Config) string {
	return cfg.Scanio.PluginsFolder
}

// GetScanioResultsHome returns the default results folder.
func GetScanioResultsHome(cfg *Config) string {
	return cfg.Scanio.ResultsFolder
}

// GetScanioTempHome returns the temp folder.
func GetScanioTempHome(cfg *Config) string {
	return cfg.Scanio.TempFolder
}

// GetScanioArtifactsHome returns the folder for launch artifacts.
func GetScanioArtifactsHome(cfg *Config) string {
	return cfg.Scanio.ArtifactsFolder
}

// IsCI reports whether the tool runs in CI mode.
func IsCI(cfg *Config) bool {
	return cfg != nil && cfg.Scanio.Mode == "CI"
}

// GetFxCopLanguage returns the configured language binding, cs by default.
func GetFxCopLanguage(cfg *Config) string {
	if cfg == nil {
		return DefaultLanguage
	}
	return SetThen(cfg.FxCopPlugin.Language, DefaultLanguage)
}

// GetFxCopTimeout returns the default FxCopCmd timeout in minutes.
func GetFxCopTimeout(cfg *Config) int {
	if cfg == nil {
		return DefaultTimeoutMinutes
	}
	return SetThen(cfg.FxCopPlugin.TimeoutMinutes, DefaultTimeoutMinutes)
}
