// Package config resolves the options of a deploy run: built-in defaults,
// then an optional TOML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/steveyegge/sendtoftrack/internal/constants"
	"github.com/steveyegge/sendtoftrack/internal/dirsync"
)

// Config is the resolved configuration of one run.
type Config struct {
	// Process is the image name of the application to stop and relaunch.
	Process string

	// Source is the bundled plugin directory.
	Source string

	// Dest is the installed plugin directory.
	Dest string

	// Overwrite decides what happens to files already present in Dest.
	Overwrite dirsync.Policy

	// WaitForKey blocks on a key press after the manual-action messages.
	WaitForKey bool

	LogLevel string
	LogFile  string
}

// File is the on-disk form of Config. Every key is optional.
type File struct {
	Process    string `toml:"process"`
	Source     string `toml:"source"`
	Dest       string `toml:"dest"`
	Overwrite  string `toml:"overwrite"`
	WaitForKey *bool  `toml:"wait_for_key"`
	LogLevel   string `toml:"log_level"`
	LogFile    string `toml:"log_file"`
}

// Defaults returns the fixed configuration: the bundle next to the
// executable, installed into the current user's ftrack plugin directory.
func Defaults(exeDir, home string) *Config {
	return &Config{
		Process:    constants.ProcessName,
		Source:     filepath.Join(exeDir, constants.SourceDirName),
		Dest:       constants.PluginDir(home),
		Overwrite:  dirsync.PolicyFail,
		WaitForKey: true,
		LogLevel:   "warn",
	}
}

// ExecutableDir returns the directory holding the running binary, with
// symlinks resolved.
func ExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}

	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}

	return filepath.Dir(realPath), nil
}

// DefaultPath is the config file looked up when none is given.
func DefaultPath(exeDir string) string {
	return filepath.Join(exeDir, constants.ConfigFileName)
}

// Load reads a config file. Returns (nil, nil) if the file does not exist.
// Unknown keys are an error so typos do not silently fall back to defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is operator-supplied
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var f File
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("parsing config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// Apply overlays the values set in f. Relative paths are resolved against
// base (the config file's directory) and a leading ~ expands to home.
func (c *Config) Apply(f *File, base, home string) error {
	if f == nil {
		return nil
	}
	if f.Process != "" {
		c.Process = f.Process
	}
	if f.Source != "" {
		c.Source = ResolvePath(f.Source, base, home)
	}
	if f.Dest != "" {
		c.Dest = ResolvePath(f.Dest, base, home)
	}
	if f.Overwrite != "" {
		p, err := dirsync.ParsePolicy(f.Overwrite)
		if err != nil {
			return err
		}
		c.Overwrite = p
	}
	if f.WaitForKey != nil {
		c.WaitForKey = *f.WaitForKey
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFile != "" {
		c.LogFile = ResolvePath(f.LogFile, base, home)
	}
	return nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Process) == "" {
		return errors.New("process name must not be empty")
	}
	if c.Source == "" || c.Dest == "" {
		return errors.New("source and dest must be set")
	}
	if filepath.Clean(c.Source) == filepath.Clean(c.Dest) {
		return fmt.Errorf("source and dest are the same directory: %s", c.Source)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ResolvePath expands a leading ~ to home and makes relative paths
// absolute against base.
func ResolvePath(p, base, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		return filepath.Join(home, p[2:])
	}
	if !filepath.IsAbs(p) && base != "" {
		return filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}
