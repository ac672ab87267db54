package platform

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/animio/internal/config"
)

func TestFindRoot(t *testing.T) {
	// /base/
	//   project/ (animio.yaml)
	//     shots/
	//       010/
	//   empty/
	fsys := afero.NewMemMapFs()
	baseDir := filepath.FromSlash("/base")
	projectDir := filepath.Join(baseDir, "project")
	nestedDir := filepath.Join(projectDir, "shots", "010")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, fsys.MkdirAll(nestedDir, 0755))
	require.NoError(t, fsys.MkdirAll(emptyDir, 0755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(projectDir, config.FileName), nil, 0644))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "Start at Root", startPath: projectDir, wantRoot: projectDir},
		{name: "Start Nested Deeply", startPath: nestedDir, wantRoot: projectDir},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(fsys, tt.startPath)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}

func TestLoadProject(t *testing.T) {
	fsys := afero.NewMemMapFs()
	projectDir := filepath.FromSlash("/work/project")
	require.NoError(t, fsys.MkdirAll(projectDir, 0755))

	t.Run("defaults without project file", func(t *testing.T) {
		cfg, root, err := LoadProject(fsys, projectDir)
		require.NoError(t, err)
		assert.Empty(t, root)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("project file", func(t *testing.T) {
		content := []byte("scene: anim.db\nadapter: sqlite\n")
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(projectDir, config.FileName), content, 0644))

		cfg, root, err := LoadProject(fsys, projectDir)
		require.NoError(t, err)
		assert.Equal(t, projectDir, root)
		assert.Equal(t, "sqlite", cfg.Adapter)
		assert.Equal(t, filepath.Join(projectDir, "anim.db"), cfg.ScenePath(root))
	})
}
