package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/yaml"
)

const (
	defaultConfigFile      = "application.yaml"
	defaultPort            = 8080
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultDocsPath        = "/api-docs"
)

// Config is the process configuration. Values come from defaults, then the optional
// YAML file, then environment variables (including a local .env file).
type Config struct {
	Server  Server  `json:"server"`
	Logging Logging `json:"logging"`
	Docs    Docs    `json:"docs"`
}

type Server struct {
	Port            int      `json:"port"`
	ShutdownTimeout Duration `json:"shutdownTimeout"`
}

type Logging struct {
	Level string `json:"level"`
}

type Docs struct {
	Path string `json:"path"`
}

// Duration decodes Go duration strings such as "15s" from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %s", b)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func (c Config) WithDefaults() Config {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(defaultShutdownTimeout)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Docs.Path == "" {
		c.Docs.Path = defaultDocsPath
	}
	return c
}

func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid config: negative shutdown timeout %s", time.Duration(c.Server.ShutdownTimeout))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !strings.HasPrefix(c.Docs.Path, "/") {
		return fmt.Errorf("invalid config: docs path %q must start with /", c.Docs.Path)
	}
	return nil
}

// Load reads .env, the YAML file named by CONFIG_FILE (default application.yaml)
// and the environment. Missing files are not an error.
func Load() (Config, error) {
	return load(".env")
}

func load(dotenvPath string) (Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	cfg, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		c.Server.ShutdownTimeout = Duration(d)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DOCS_PATH"); v != "" {
		c.Docs.Path = v
	}
	return nil
}
