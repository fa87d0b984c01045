// Package configutil loads json5 configuration files with optional
// machine-local overrides kept out of version control.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath derives the override sibling of a config path, e.g.
// "telemetry.json5" -> "telemetry.local.json5".
func localPath(name string) string {
	dir := filepath.Dir(name)
	base := filepath.Base(name)

	ext := ""
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		ext = base[dot+1:]
		base = base[:dot]
	}
	return filepath.Join(dir, fmt.Sprintf("%s.local.%s", base, ext))
}

// readLayer unmarshals one file into out. A missing or empty file is not an
// error, it just reports found=false.
func readLayer(path string, out any) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// ReadConfig loads `name` and, when present, merges `<name>.local.<ext>`
// over it. Override values win field by field. When neither file exists the
// error is os.ErrNotExist, so callers can treat an absent config as a
// missing file.
func ReadConfig[T any](name string) (T, error) {
	var config T

	foundBase, err := readLayer(name, &config)
	if err != nil {
		return config, err
	}

	override := localPath(name)
	var local T
	foundLocal, err := readLayer(override, &local)
	if err != nil {
		return config, err
	}
	if foundLocal {
		err = mergo.Merge(&config, local, mergo.WithOverride)
		if err != nil {
			return config, fmt.Errorf("%s: %w", override, err)
		}
		slog.Info("merging config with local overrides", "local", override)
	}

	if !foundBase && !foundLocal {
		return config, os.ErrNotExist
	}
	return config, nil
}

// ReadRecursively walks from the working directory up to the filesystem
// root looking for `name`, reading the first match the way ReadConfig does.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	root, err := filepath.Abs("/")
	if err != nil {
		return zero, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for dir != root {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if os.IsNotExist(err) {
			dir = filepath.Join(dir, "..")
			continue
		}
		if err != nil {
			return zero, err
		}
		return config, nil
	}
	return zero, os.ErrNotExist
}
