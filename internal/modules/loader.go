package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/utils"
)

// LoadFile reads and decodes one interchange document.
func LoadFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Loader loads interchange documents and caches them by absolute path.
// Modules are immutable once built, so a cached module can be handed out
// to any number of callers.
type Loader struct {
	LoadedModules map[string]*ir.Module // Cache of loaded modules by path
}

func NewLoader() *Loader {
	return &Loader{LoadedModules: make(map[string]*ir.Module)}
}

// Load resolves path (a document, or a directory holding one) and returns
// its module, decoding it on first use.
func (l *Loader) Load(path string) (*ir.Module, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	absPath, err = resolveDocument(absPath)
	if err != nil {
		return nil, err
	}

	if mod, ok := l.LoadedModules[absPath]; ok {
		return mod, nil
	}
	mod, err := LoadFile(absPath)
	if err != nil {
		return nil, err
	}
	l.LoadedModules[absPath] = mod
	return mod, nil
}

// resolveDocument maps a directory to the document it holds.
// Rule: look for a file named like the directory (e.g., demo/demo.qir.yaml).
// If not found, use the only recognized document in the directory.
func resolveDocument(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	dirName := filepath.Base(path)
	for _, ext := range config.InterchangeFileExtensions {
		mainFile := filepath.Join(path, dirName+ext)
		if _, err := os.Stat(mainFile); err == nil {
			return mainFile, nil
		}
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	var candidates []string
	for _, f := range files {
		if !f.IsDir() && utils.HasDocumentExt(f.Name()) && !contains(config.ConfigFileNames, f.Name()) {
			candidates = append(candidates, f.Name())
		}
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no %s files found in %s", strings.Join(config.InterchangeFileExtensions, "/"), path)
	case 1:
		return filepath.Join(path, candidates[0]), nil
	default:
		return "", fmt.Errorf("multiple documents in directory %s: found %s", path, strings.Join(candidates, ", "))
	}
}
