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

func readJson5[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("%s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads a json5 configuration file, `name` should come with
// a file extension. If a sibling `<name>.local.<ext>` exists it is merged
// on top of the base file, overriding any keys it sets.
func ReadConfig[T any](name string) (T, error) {
	ext := filepath.Ext(name)
	localName := strings.TrimSuffix(name, ext) + ".local" + ext

	base, foundBase, err := readJson5[T](name)
	if err != nil {
		return base, err
	}
	override, foundLocal, err := readJson5[T](localName)
	if err != nil {
		return base, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localName)
		err = mergo.Merge(&base, override, mergo.WithOverride)
		if err != nil {
			return base, err
		}
	}

	if !foundBase && !foundLocal {
		return base, os.ErrNotExist
	}
	return base, nil
}

// ReadRecursively is ReadConfig but it walks up the filesystem from the
// cwd until the root to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return zero, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return zero, os.ErrNotExist
		}
		current = parent
	}
}
