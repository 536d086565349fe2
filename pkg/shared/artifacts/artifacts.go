package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

// GetArtifactName build returns artifact name.
// Example: analyse_fxcop_2025-09-15T08:28:46Z.scanio-artifact.
func GetArtifactName(command, plugin string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	return fmt.Sprintf("%s_%s_%s.scanio-artifact", command, plugin, ts)
}

// NewRunID returns a fresh identifier for one command launch.
func NewRunID() string {
	return uuid.NewString()
}

// SaveArtifactJSON writes the provided result to a <artifacts>/<base>.json.
// A run id is assigned when the result has none. Returns full path.
func SaveArtifactJSON(cfg *config.Config, logger hclog.Logger, command, plugin string, result shared.GenericLaunchesResult) (string, error) {
	if result.RunID == "" {
		result.RunID = NewRunID()
	}

	dir := config.GetScanioArtifactsHome(cfg)
	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return "", fmt.Errorf("error preparing artifacts folder: %w", err)
	}
	base := GetArtifactName(command, plugin, time.Now())
	path := filepath.Join(dir, base+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.WriteJsonFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing result to log file: %w", err)
	}
	logger.Info("artifact saved to file", "path", path, "runID", result.RunID)

	return path, nil
}
