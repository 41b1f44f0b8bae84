package main

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// improvctl config.toml key mapping.
type fileConfig struct {
	Port string `toml:"port"`
	Baud int    `toml:"baud"`
	SSID string `toml:"ssid"`
	PSK  string `toml:"psk"`
	Wake bool   `toml:"trailing_wake_byte"`
}

type runConfig struct {
	Port             string
	Baud             int
	SSID             string
	PSK              string
	TrailingWakeByte bool
}

func defaultConfig() runConfig {
	return runConfig{Baud: 115200}
}

// loadConfig overlays config file values on the defaults. Keys absent from
// the file keep their default, so a file can set just the port.
func loadConfig(path string) (runConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, errors.Wrap(err, "could not load config")
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("ssid") {
		cfg.SSID = raw.SSID
	}
	if meta.IsDefined("psk") {
		cfg.PSK = raw.PSK
	}
	if meta.IsDefined("trailing_wake_byte") {
		cfg.TrailingWakeByte = raw.Wake
	}

	if cfg.Baud <= 0 {
		return runConfig{}, errors.New("baud rate must be positive")
	}

	return cfg, nil
}
