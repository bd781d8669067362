package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/mashgo/internal/ctxlog"
)

// UserFile and SystemFile are the default locations, searched in order.
const (
	UserFile   = ".mprov-mash.yaml"
	SystemFile = "/etc/mprov/mash.yaml"
)

// ErrNotFound is returned when no readable connection file exists.
var ErrNotFound = errors.New("unable to find working config file")

// Loader produces the connection file for an argument-less connect.
type Loader interface {
	Load(ctx context.Context) (*File, error)
}

// FileLoader reads the first existing file of its search path.
type FileLoader struct {
	// Explicit, when set, is the only file consulted and it must exist.
	Explicit string
	// HomeDir resolves the user's home directory. Defaults to os.UserHomeDir.
	HomeDir func() (string, error)
	// System overrides SystemFile.
	System string
	// ReadFile defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// NewFileLoader returns a loader for the default search path, or for
// explicit alone when it is not empty.
func NewFileLoader(explicit string) *FileLoader {
	return &FileLoader{Explicit: explicit}
}

// SearchPath lists the candidate files in lookup order.
func (l *FileLoader) SearchPath() []string {
	if l.Explicit != "" {
		return []string{l.Explicit}
	}

	var paths []string
	homeDir := l.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	if home, err := homeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, UserFile))
	}
	system := l.System
	if system == "" {
		system = SystemFile
	}
	return append(paths, system)
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	readFile := l.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	for _, path := range l.SearchPath() {
		data, err := readFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				logger.Debug("Config file not usable.", "path", path, "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		logger.Debug("Loaded config file.", "path", path)
		return Parse(path, data)
	}
	return nil, ErrNotFound
}
