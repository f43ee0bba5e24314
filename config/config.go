// Package config reads show files: one transmitter and the scenes it can
// send.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transmitter TransmitterConfig `yaml:"transmitter"`
	Scenes      []SceneConfig     `yaml:"scenes"`
}

// ---- TRANSMITTER ----

type TransmitterConfig struct {
	// Path of the serial adapter, or "sim" for the simulated peripheral
	Port   string `yaml:"port"`
	Family string `yaml:"family"`
	Index  int    `yaml:"index"`
	Chip   string `yaml:"chip"`

	NineBitFormats bool `yaml:"nine_bit_formats"`

	// Packets per second, "once" or "max"
	Refresh    string `yaml:"refresh"`
	PacketSize int    `yaml:"packet_size"`

	Break BreakConfig `yaml:"break"`
}

type BreakConfig struct {
	UseTimer bool   `yaml:"use_timer"`
	TimeUs   uint32 `yaml:"time_us"`
	MABUs    uint32 `yaml:"mab_us"`
	Baud     uint32 `yaml:"baud"`
	Format   string `yaml:"format"`
}

// ---- SCENES ----

type SceneConfig struct {
	Name      string `yaml:"name"`
	StartCode uint8  `yaml:"start_code"`

	// Channel numbers start at 1
	Channels map[int]uint8  `yaml:"channels"`
	Wide     map[int]uint16 `yaml:"wide"`
	Ranges   []RangeConfig  `yaml:"ranges"`
}

type RangeConfig struct {
	Start  int     `yaml:"start"`
	Values []uint8 `yaml:"values"`
}

const SimPort = "sim"

// Load reads a show file. Unknown keys are an error. The result is
// validated and normalized.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	Normalize(cfg)
	return cfg, nil
}

func (c *Config) Scene(name string) (*SceneConfig, error) {
	for i := range c.Scenes {
		if c.Scenes[i].Name == name {
			return &c.Scenes[i], nil
		}
	}
	return nil, fmt.Errorf("no scene named %q", name)
}
