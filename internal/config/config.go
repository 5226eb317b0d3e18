// config package loads the optional TOML settings file
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "bmprle.toml"

type Config struct {
	Server ServerConfig `toml:"server"`
	Edit   EditConfig   `toml:"edit"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`
	Image  string `toml:"image"` // bitmap loaded when the server starts
	Name   string `toml:"server_name"`
}

type EditConfig struct {
	FillValue uint8  `toml:"fill_value"` // palette index written by fill
	SavePath  string `toml:"save_path"`  // default target of a save, empty means overwrite
}

// Returns the settings used when there is no config file
func Default() Config {
	return Config{
		Server: ServerConfig{Listen: "127.0.0.1:8080", Name: "bmprle"},
		Edit:   EditConfig{FillValue: 255},
	}
}

// Load reads the config file at path over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	return cfg, nil
}

// Returns true if a config file exists at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
