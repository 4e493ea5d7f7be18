package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/quill/internal/config"
)

// HasDocumentExt reports whether path ends in a recognized interchange extension.
func HasDocumentExt(path string) bool {
	for _, ext := range config.InterchangeFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ExtractModuleName derives a module name from a file path.
// It takes the base filename and removes any recognized document extension.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	for _, ext := range config.InterchangeFileExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GetModuleDir returns the directory context for a module path.
// If the path points to a document, returns the file's directory.
// If the path points to a directory, returns the path itself.
func GetModuleDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	if HasDocumentExt(path) {
		return filepath.Dir(path)
	}
	return path
}
