package configuration

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// returns os.ErrNotExist when the file is missing or empty
func readJson5[T any](path string, out *T) error {
	contents, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(contents) == 0 {
		return os.ErrNotExist
	}
	return json5.Unmarshal(contents, out)
}

// reads a configuration file, `name` should come with a file extension.
// a `<name>.local.<ext>` sibling, when present, is merged on top of the
// base file so deployments can override checked-in defaults.
func Read[T any](name string) (T, error) {
	var out T

	prefixname, ext := splitExt(filepath.Base(name))
	localPath := filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)

	baseErr := readJson5(name, &out)
	if baseErr != nil && !os.IsNotExist(baseErr) {
		return out, baseErr
	}

	var override T
	localErr := readJson5(localPath, &override)
	if localErr != nil && !os.IsNotExist(localErr) {
		return out, localErr
	}
	if localErr == nil {
		err := mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
	}

	if os.IsNotExist(baseErr) && os.IsNotExist(localErr) {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Read but it recursively goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	root, err := filepath.Abs("/")
	if err != nil {
		return defaultOut, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for current != root {
		config, err := Read[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Join(current, "..")
			continue
		}
		if err != nil {
			return defaultOut, err
		}

		return config, nil
	}

	return defaultOut, os.ErrNotExist
}
