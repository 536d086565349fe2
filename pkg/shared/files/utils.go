package files

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// IsRegularFile reports whether path exists and is a regular file. Symlinks are followed.
func IsRegularFile(path string) bool {
	return ValidatePath(path) == nil
}

// AbsPath returns the absolute form of path, or path itself when it cannot be resolved.
func AbsPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// CreateFolderIfNotExists checks if a folder exists, and if not, creates it.
func CreateFolderIfNotExists(folder string) error {
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", folder, err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to check folder %q: %w", folder, err)
	}
	return nil
}

// WriteJsonFile writes JSON data to the specified file.
func WriteJsonFile(outputFile string, data []byte) error {
	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}
	defer file.Close()

	datawriter := bufio.NewWriter(file)

	if _, err := datawriter.Write(data); err != nil {
		return fmt.Errorf("error writing data to file: %w", err)
	}

	return datawriter.Flush()
}

// DetermineFileFullPath treats path as a file when it has an extension and as a folder otherwise,
// and returns the full file path together with its folder.
func DetermineFileFullPath(path, nameTemplate string) (string, string, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to unwrap path %q: %w", path, err)
	}

	fileInfo, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", fmt.Errorf("failed to unwrap path %q: %w", path, err)
	}

	var fullPath, folder string
	if err == nil && fileInfo.IsDir() || (err != nil && filepath.Ext(path) == "") {
		folder = path
		fullPath = filepath.Join(path, nameTemplate)
	} else {
		folder = filepath.Dir(path)
		fullPath = path
	}

	return fullPath, folder, nil
}
