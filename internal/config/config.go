package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"icsshift/internal/shift"
)

// ErrShiftSpec is returned when the effective configuration does not name
// exactly one of delta or anchor.
var ErrShiftSpec = errors.New("exactly one of delta or anchor must be set")

// Config is the persisted configuration. Command-line flags override it.
type Config struct {
	// Delta is a fixed shift: a Go duration ("-1h30m") or whole hours ("-1").
	Delta string `yaml:"delta,omitempty"`

	// Anchor is a signed target hour: "8" moves events later to 08:00,
	// "-8" earlier to 08:00. Mutually exclusive with Delta.
	Anchor string `yaml:"anchor,omitempty"`

	// Verbosity is the default -v count.
	Verbosity int `yaml:"verbosity"`

	// Verify re-reads the output with an iCalendar parser before writing it.
	Verify bool `yaml:"verify"`

	// LineEnding forces the output terminator. Supported values:
	//   - "" (keep the input's)
	//   - "crlf"
	//   - "lf"
	LineEnding string `yaml:"line_ending,omitempty"`

	// FetchTimeout bounds downloads of http(s) inputs.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Verbosity:    0,
		Verify:       false,
		LineEnding:   "",
		FetchTimeout: 15 * time.Second,
	}
}

// Normalize fills in missing/zero values with sensible defaults.
func (c *Config) Normalize() {
	if c.Verbosity < 0 {
		c.Verbosity = 0
	}
	switch c.LineEnding {
	case "", "crlf", "lf":
		// ok
	default:
		// Unknown value; keep the input's terminator.
		c.LineEnding = ""
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
}

// Terminator maps LineEnding to the literal terminator, "" meaning keep.
func (c *Config) Terminator() string {
	switch c.LineEnding {
	case "crlf":
		return "\r\n"
	case "lf":
		return "\n"
	default:
		return ""
	}
}

// ShiftSpec resolves Delta/Anchor into a shift specification.
func (c *Config) ShiftSpec() (shift.Spec, error) {
	switch {
	case c.Delta != "" && c.Anchor != "":
		return shift.Spec{}, fmt.Errorf("%w: both given", ErrShiftSpec)
	case c.Delta != "":
		return shift.ParseDelta(c.Delta)
	case c.Anchor != "":
		return shift.ParseAnchor(c.Anchor)
	default:
		return shift.Spec{}, fmt.Errorf("%w: neither given", ErrShiftSpec)
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - empty path or missing file: defaults
//   - otherwise: read YAML, unmarshal over defaults, normalize
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// Save is a convenience method on Config that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
