package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	"convo/internal/config"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
)

type ConfigCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
}

type configOutput struct {
	ConfigPath  string              `json:"config_path" toml:"config_path"`
	ArchivePath string              `json:"archive_path" toml:"archive_path"`
	Server      configServerOutput  `json:"server" toml:"server"`
	Logging     configLoggingOutput `json:"logging" toml:"logging"`
	UI          configUIOutput      `json:"ui" toml:"ui"`
}

type configServerOutput struct {
	Address string `json:"address" toml:"address"`
	BaseURL string `json:"base_url" toml:"base_url"`
}

type configLoggingOutput struct {
	Level string `json:"level" toml:"level"`
}

type configUIOutput struct {
	ShowThoughts bool `json:"show_thoughts" toml:"show_thoughts"`
	WrapWidth    int  `json:"wrap_width" toml:"wrap_width"`
}

func NewConfigCommand(wiring commandWiring) *ConfigCommand {
	return &ConfigCommand{
		stdout:     wiring.stdout,
		stderr:     wiring.stderr,
		loadConfig: wiring.loadConfig,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}

	var cfg config.Config
	if *defaults {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = c.loadConfig()
		if err != nil {
			return err
		}
	}
	payload, err := buildConfigOutput(cfg)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, payload)
}

func buildConfigOutput(cfg config.Config) (configOutput, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return configOutput{}, err
	}
	archivePath, err := cfg.ResolveArchivePath()
	if err != nil {
		return configOutput{}, err
	}
	return configOutput{
		ConfigPath:  path,
		ArchivePath: archivePath,
		Server: configServerOutput{
			Address: cfg.Server.Address,
			BaseURL: cfg.ServerBaseURL(),
		},
		Logging: configLoggingOutput{
			Level: cfg.LogLevel(),
		},
		UI: configUIOutput{
			ShowThoughts: cfg.UI.ShowThoughts,
			WrapWidth:    cfg.WrapWidth(),
		},
	}, nil
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", errors.New("invalid format: must be json or toml")
	}
}
