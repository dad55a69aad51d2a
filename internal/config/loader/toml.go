package loader

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs FileSystem
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem) *TOMLLoader {
	return &TOMLLoader{fs: fs}
}

// LoadFrom reads configuration from a specific path.
func (l *TOMLLoader) LoadFrom(path string, target any) (bool, error) {
	data, ok, err := readFile(l.fs, path)
	if err != nil || !ok {
		return ok, err
	}
	return true, l.parse(path, data, target)
}

// parse decodes TOML strictly: unknown keys are errors.
func (l *TOMLLoader) parse(path string, data []byte, target any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}
