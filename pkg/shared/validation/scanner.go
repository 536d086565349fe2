package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

var supportedFormats = []string{"json", "sarif"}

// ValidateScanArgs checks the necessary fields in ScannerScanRequest and returns errors if they are not set
func ValidateScanArgs(args *shared.ScannerScanRequest) error {
	if args.TargetPath == "" {
		return fmt.Errorf("target path is required")
	}

	if args.ResultsPath == "" {
		return fmt.Errorf("results path is required")
	}

	if args.ReportFormat != "" && !shared.IsInList(args.ReportFormat, supportedFormats) {
		return fmt.Errorf("unsupported report format %q, expected one of %v", args.ReportFormat, supportedFormats)
	}

	targetPath, err := files.ExpandPath(args.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to expand path '%s': %w", args.TargetPath, err)
	}
	info, err := os.Stat(targetPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("target path does not exist: %s", targetPath)
	} else if err != nil {
		return fmt.Errorf("failed to check target path '%s': %w", targetPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("target path must be a directory: %s", targetPath)
	}

	resultsPath, err := files.ExpandPath(args.ResultsPath)
	if err != nil {
		return fmt.Errorf("failed to expand path '%s': %w", args.ResultsPath, err)
	}
	if err := files.CreateFolderIfNotExists(filepath.Dir(resultsPath)); err != nil {
		return fmt.Errorf("failed to create results folder for '%s': %w", resultsPath, err)
	}

	if args.ConfigPath != "" {
		if err := files.ValidatePath(args.ConfigPath); err != nil {
			return fmt.Errorf("invalid properties file %q: %w", args.ConfigPath, err)
		}
	}

	return nil
}
