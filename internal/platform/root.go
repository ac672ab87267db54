package platform

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/aretw0/animio/internal/config"
)

// FindRoot recursively looks upwards for a project root, the directory
// holding animio.yaml, and returns its absolute path.
func FindRoot(fsys afero.Fs, startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(fsys, dir, config.FileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found from %s upwards", config.FileName, abs)
}

// LoadProject finds the project root from startDir and loads its config.
// Without a project file the defaults apply and root is "".
func LoadProject(fsys afero.Fs, startDir string) (cfg config.Config, root string, err error) {
	root, err = FindRoot(fsys, startDir)
	if err != nil {
		return config.Default(), "", nil
	}
	cfg, err = config.Load(fsys, filepath.Join(root, config.FileName))
	return cfg, root, err
}

func hasFile(fsys afero.Fs, dir, name string) bool {
	info, err := fsys.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
