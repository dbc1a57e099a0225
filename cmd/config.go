package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/smarthome-go/quiz/quiz/runner"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Config struct {
	Color         ColorMode `toml:"color" yaml:"color"`
	Prompt        string    `toml:"prompt" yaml:"prompt"`
	AnswerOptions bool      `toml:"answer_options" yaml:"answer_options"`
	Styles        bool      `toml:"styles" yaml:"styles"`
	History       string    `toml:"history" yaml:"history"`
	LogFile       string    `toml:"log_file" yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		Color:         ColorAuto,
		Prompt:        runner.DefaultPrompt,
		AnswerOptions: false,
		Styles:        false,
		History:       "",
		LogFile:       "",
	}
}

// LoadConfig reads a TOML or YAML file, the format is chosen by extension.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file `%s`: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return Config{}, fmt.Errorf("invalid TOML in `%s`: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("invalid YAML in `%s`: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format `%s`: use .toml, .yaml or .yml", filepath.Ext(path))
	}

	if err := config.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file `%s`: %w", path, err)
	}

	return config, nil
}

func (self Config) validate() error {
	switch self.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("illegal color mode `%s`: valid values are `auto`, `always` and `never`", self.Color)
	}
}

// applyFlags lets explicitly set command line flags override the file.
func (self *Config) applyFlags(ctx *cli.Context) error {
	if ctx.IsSet("color") {
		self.Color = ColorMode(ctx.String("color"))
	}
	if ctx.IsSet("options") {
		self.AnswerOptions = ctx.Bool("options")
	}
	if ctx.IsSet("styles") {
		self.Styles = ctx.Bool("styles")
	}
	if ctx.IsSet("log-file") {
		self.LogFile = ctx.String("log-file")
	}
	return self.validate()
}

// UseColor decides once whether output is decorated.
// In auto mode this requires a terminal on stdout and no `NO_COLOR` variable.
func (self Config) UseColor(stdout *os.File) bool {
	switch self.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, set := os.LookupEnv("NO_COLOR"); set {
			return false
		}
		return stdout != nil && term.IsTerminal(int(stdout.Fd()))
	}
}
