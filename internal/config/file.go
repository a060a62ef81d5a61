// Package config loads optional devserve settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is looked up in the served directory when no explicit
// config path is given.
const DefaultFileName = "devserve.toml"

// File holds the values present in a config file. Nil fields were not set.
type File struct {
	Host        *string `toml:"host"`
	Port        *int    `toml:"port"`
	OpenBrowser *bool   `toml:"open-browser"`
	Watch       *bool   `toml:"watch"`
	LogLevel    *string `toml:"log-level"`

	// Path is the file the values were read from, empty when none was found.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that devserve does not use.
	Unknown []string `toml:"-"`
}

// Load reads path. When required is false a missing file yields an empty
// File and no error.
func Load(path string, required bool) (File, error) {
	if strings.TrimSpace(path) == "" {
		return File{}, nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Decode(path, payload)
}

// Decode parses a TOML payload read from path.
func Decode(path string, payload []byte) (File, error) {
	file := File{}
	meta, err := toml.Decode(string(payload), &file)
	if err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	file.Path = path
	for _, key := range meta.Undecoded() {
		file.Unknown = append(file.Unknown, key.String())
	}
	sort.Strings(file.Unknown)
	if err := file.Validate(); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return file, nil
}

func (file File) Validate() error {
	if file.Port != nil && (*file.Port < 0 || *file.Port > 65535) {
		return fmt.Errorf("invalid port: %d", *file.Port)
	}
	if file.Host != nil && strings.TrimSpace(*file.Host) == "" {
		return errors.New("invalid host: value cannot be empty")
	}
	return nil
}
