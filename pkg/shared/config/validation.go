package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

var supportedLanguages = []string{"cs", "vbnet"}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateScanioConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: scanio directive is invalid: %w", err)
	}
	if err := ValidateFxCopConfig(&cfg.FxCopPlugin); err != nil {
		return fmt.Errorf("YAML global config: fxcop_plugin directive is invalid: %w", err)
	}
	return nil
}

// ValidateScanioConfig checks if the Scanio configurations have valid values.
func ValidateScanioConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("scanio configuration is nil")
	}
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	folders := []struct {
		folder *string
		env    string
		sub    string
	}{
		{&cfg.Scanio.PluginsFolder, "SCANIO_PLUGINS_FOLDER", "plugins"},
		{&cfg.Scanio.ResultsFolder, "SCANIO_RESULTS_FOLDER", "results"},
		{&cfg.Scanio.TempFolder, "SCANIO_TEMP_FOLDER", "tmp"},
		{&cfg.Scanio.ArtifactsFolder, "SCANIO_ARTIFACTS_FOLDER", "artifacts"},
	}
	for _, f := range folders {
		if err := updateFolder(f.folder, f.env, f.sub, cfg); err != nil {
			return fmt.Errorf("failed to update %s folder: %w", f.sub, err)
		}
	}
	updateMode(cfg)

	return nil
}

// ValidateFxCopConfig applies environment overrides and checks the fxcop_plugin values.
func ValidateFxCopConfig(fx *FxCopPlugin) error {
	if fx == nil {
		return fmt.Errorf("fxcop configuration is nil")
	}
	if err := updateFxCopFromEnv(fx); err != nil {
		return err
	}

	if fx.Language != "" && !isSupportedLanguage(fx.Language) {
		return fmt.Errorf("unsupported language %q, expected one of %v", fx.Language, supportedLanguages)
	}
	if fx.TimeoutMinutes < 0 || fx.TimeoutMinutes > 1440 {
		return fmt.Errorf("timeout_minutes must be between 0 and 1440: %d", fx.TimeoutMinutes)
	}
	for i, rule := range fx.Rules {
		if rule.CheckID == "" {
			return fmt.Errorf("rule #%d has an empty check_id", i+1)
		}
	}
	if fx.WorkDir != "" {
		expanded, err := files.ExpandPath(fx.WorkDir)
		if err != nil {
			return fmt.Errorf("failed to expand work_dir %q: %w", fx.WorkDir, err)
		}
		fx.WorkDir = expanded
	}
	return nil
}

func isSupportedLanguage(language string) bool {
	for _, l := range supportedLanguages {
		if l == language {
			return true
		}
	}
	return false
}

// updateFxCopFromEnv sets fxcop values from environment variables, if they are set.
func updateFxCopFromEnv(fx *FxCopPlugin) error {
	envVars := map[string]*string{
		"SCANIO_FXCOP_LANGUAGE": &fx.Language,
		"SCANIO_FXCOP_WORK_DIR": &fx.WorkDir,
	}
	for env, val := range envVars {
		if v := os.Getenv(env); v != "" {
			*val = v
		}
	}

	if v := os.Getenv("SCANIO_FXCOP_TIMEOUT_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCANIO_FXCOP_TIMEOUT_MINUTES must be an integer: %q", v)
		}
		fx.TimeoutMinutes = minutes
	}
	return nil
}

// updateHome updates the HomeFolder in the Scanio config from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if scanioHomeFolder := os.Getenv("SCANIO_HOME"); scanioHomeFolder != "" {
		cfg.Scanio.HomeFolder = scanioHomeFolder
	} else if cfg.Scanio.HomeFolder == "" {
		homeFolder, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.Scanio.HomeFolder = filepath.Join(homeFolder, ".scanio")
	}

	expandedHomePath, err := files.ExpandPath(cfg.Scanio.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", cfg.Scanio.HomeFolder, err)
	}
	cfg.Scanio.HomeFolder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create home folder %q: %w", cfg.Scanio.HomeFolder, err)
	}
	return nil
}

// updateFolder updates a folder path in the Scanio configuration.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetScanioHome(cfg), defaultSubFolder)
	}

	expandedPath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", *folder, err)
	}
	*folder = expandedPath

	if err := files.CreateFolderIfNotExists(expandedPath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedPath, err)
	}
	return nil
}

// updateMode updates the Mode field in the Scanio configuration based on environment variables.
func updateMode(cfg *Config) {
	if os.Getenv("SCANIO_MODE") == "CI" || os.Getenv("CI") == "true" {
		cfg.Scanio.Mode = "CI"
		return
	}

	if envVarValue := os.Getenv("SCANIO_MODE"); envVarValue != "" {
		cfg.Scanio.Mode = envVarValue
		return
	}

	cfg.Scanio.Mode = "user"
}
