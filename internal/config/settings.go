package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultServerAddress = "127.0.0.1:7707"

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Archive ArchiveConfig `toml:"archive"`
	UI      UIConfig      `toml:"ui"`
}

type ServerConfig struct {
	Address string `toml:"address"`
	Token   string `toml:"token"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type ArchiveConfig struct {
	Path string `toml:"path"`
}

type UIConfig struct {
	ShowThoughts bool `toml:"show_thoughts"`
	WrapWidth    int  `toml:"wrap_width"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address: defaultServerAddress,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			ShowThoughts: true,
		},
	}
}

// Load reads the settings file, returning defaults when it does not exist.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func (c Config) ServerBaseURL() string {
	addr := strings.TrimSpace(c.Server.Address)
	if addr == "" {
		addr = defaultServerAddress
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}
	return "http://" + strings.TrimRight(addr, "/")
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

// ResolveArchivePath resolves the archive database path, falling back to the
// default location under the data directory.
func (c Config) ResolveArchivePath() (string, error) {
	path := strings.TrimSpace(c.Archive.Path)
	if path == "" {
		return ArchivePath()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}

func (c Config) WrapWidth() int {
	if c.UI.WrapWidth <= 0 {
		return 100
	}
	return c.UI.WrapWidth
}
