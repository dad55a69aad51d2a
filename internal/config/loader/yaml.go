package loader

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// LoadFrom reads configuration from a specific path.
func (l *YAMLLoader) LoadFrom(path string, target any) (bool, error) {
	data, ok, err := readFile(l.fs, path)
	if err != nil || !ok {
		return ok, err
	}
	return true, l.parse(path, data, target)
}

// parse decodes YAML strictly: unknown keys are errors. An empty
// document leaves target unchanged.
func (l *YAMLLoader) parse(path string, data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}
