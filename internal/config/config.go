// Package config loads the animio.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/animio/pkg/core"
)

// FileName is the project file looked up by the CLI.
const FileName = "animio.yaml"

// Config is the content of animio.yaml. Every field has a default, so an
// empty file is valid.
type Config struct {
	// Scene is the scene file (or SQLite database) relative to the project root.
	Scene   string `yaml:"scene" validate:"required"`
	Adapter string `yaml:"adapter" validate:"oneof=fs sqlite"`
	// Object is the default target object.
	Object string `yaml:"object"`
	Strict bool   `yaml:"strict"`
	// Indent is the number of spaces used when writing JSON. Zero writes compact JSON.
	Indent int `yaml:"indent" validate:"gte=0,lte=8"`
	// Include are data path patterns that restrict replace and merge imports.
	Include []string `yaml:"include,omitempty"`
	Watch   Watch    `yaml:"watch"`
}

// Watch configures `animio watch`.
type Watch struct {
	Mode     string        `yaml:"mode" validate:"oneof=replace merge"`
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// Default returns the configuration used when no project file exists.
func Default() Config {
	return Config{
		Scene:   "scene.yaml",
		Adapter: "fs",
		Indent:  2,
		Watch: Watch{
			Mode:     "replace",
			Debounce: 50 * time.Millisecond,
		},
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := core.PathPatterns(c.Include).Validate(); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", strings.ToLower(e.Namespace()), e.Tag(), e.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ScenePath resolves the scene location against the project root.
func (c Config) ScenePath(root string) string {
	if root == "" || filepath.IsAbs(c.Scene) {
		return c.Scene
	}
	return filepath.Join(root, c.Scene)
}

// IndentString returns the JSON indentation unit.
func (c Config) IndentString() string {
	return strings.Repeat(" ", c.Indent)
}

// Write stores c as YAML, failing if the file exists.
func Write(fsys afero.Fs, path string, c Config) error {
	if _, err := fsys.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0644)
}
