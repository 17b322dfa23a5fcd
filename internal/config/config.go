// Package config loads trebuchet.toml (or trebuchet.yaml) and applies defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trebuchet/internal/lexer"
	"trebuchet/internal/trace"
)

const (
	DefaultInputPath = "input.txt"
	DefaultDemoPath  = "demo-input.txt"
)

// FileNames lists the config names searched for, in priority order.
var FileNames = []string{"trebuchet.toml", "trebuchet.yaml", "trebuchet.yml"}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

type Input struct {
	Path     string `toml:"path" yaml:"path"`
	DemoPath string `toml:"demo_path" yaml:"demo_path"`
	Demo     bool   `toml:"demo" yaml:"demo"`
}

type Solve struct {
	Mode string `toml:"mode" yaml:"mode"`
	Jobs int    `toml:"jobs" yaml:"jobs"`
}

type Trace struct {
	Level    string `toml:"level" yaml:"level"`
	Output   string `toml:"output" yaml:"output"`
	Mode     string `toml:"mode" yaml:"mode"`
	RingSize int    `toml:"ring_size" yaml:"ring_size"`
}

// Cache selects the result cache. Dir alone turns it on; Enabled without
// Dir uses the per-user default directory.
type Cache struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

// Active reports whether a result cache should be opened.
func (c Cache) Active() bool {
	return c.Enabled || c.Dir != ""
}

// Config is the explicit run configuration handed to the driver.
type Config struct {
	Input Input `toml:"input" yaml:"input"`
	Solve Solve `toml:"solve" yaml:"solve"`
	Trace Trace `toml:"trace" yaml:"trace"`
	Cache Cache `toml:"cache" yaml:"cache"`

	// Path of the file the config was read from; empty for defaults.
	Source string `toml:"-" yaml:"-"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Input: Input{Path: DefaultInputPath, DemoPath: DefaultDemoPath},
		Solve: Solve{Mode: lexer.ModeWords.String()},
		Trace: Trace{Level: trace.LevelOff.String(), Mode: trace.ModeStream.String(), RingSize: 4096},
	}
}

// ValidationError aggregates config problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate checks enum fields and numeric bounds.
func (c *Config) Validate() error {
	var issues []string
	if _, err := lexer.ParseMode(c.Solve.Mode); err != nil {
		issues = append(issues, "solve.mode: "+err.Error())
	}
	if c.Solve.Jobs < 0 {
		issues = append(issues, fmt.Sprintf("solve.jobs: must be >= 0, got %d", c.Solve.Jobs))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		issues = append(issues, "trace.level: "+err.Error())
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		issues = append(issues, "trace.mode: "+err.Error())
	}
	if c.Trace.RingSize < 0 {
		issues = append(issues, fmt.Sprintf("trace.ring_size: must be >= 0, got %d", c.Trace.RingSize))
	}
	if strings.TrimSpace(c.InputPath()) == "" {
		issues = append(issues, "input: no input path configured")
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// InputPath picks the demo or the real input and resolves it against the
// config file directory.
func (c *Config) InputPath() string {
	p := c.Input.Path
	if c.Input.Demo {
		p = c.Input.DemoPath
	}
	if p == "" || filepath.IsAbs(p) || c.Source == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Source), p)
}

// Mode returns the parsed solve mode. Call after Validate.
func (c *Config) Mode() lexer.Mode {
	m, err := lexer.ParseMode(c.Solve.Mode)
	if err != nil {
		return lexer.ModeWords
	}
	return m
}

// Find walks up from startDir to locate a config file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest config, falling back to Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path on top of Default. The format follows the extension.
func Load(path string) (Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(path, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(path, &cfg)
	default:
		return Config{}, fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return Config{}, err
	}
	cfg.Source = path
	return cfg, nil
}

func sortedKeys(keys []string) []string {
	sort.Strings(keys)
	return keys
}
