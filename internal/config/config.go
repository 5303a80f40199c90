// Package config holds the settings shared by every command and resolves
// where the task-list file lives.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const (
	// AppName is the application name.
	AppName = "todoclist"

	// DefaultFileName is the task-list filename.
	DefaultFileName = "todoclist.json"

	// DefaultDir is the directory used when no path override is given.
	DefaultDir = "."

	// DefaultLockTimeout bounds how long a command waits for the lock.
	DefaultLockTimeout = 5 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Path is the directory override as given by the user (flag or file).
	Path string

	// Dir is the absolute directory containing the task-list file.
	// Set by Finalize.
	Dir string

	// FileName is the task-list filename inside Dir.
	FileName string

	// AutoInit creates a missing task list instead of failing.
	AutoInit bool

	// Quiet suppresses informational output.
	Quiet bool

	// Debug enables debug logging.
	Debug bool

	// NoColor disables styled output.
	NoColor bool

	// LockTimeout bounds the wait for the advisory lock. Zero disables locking.
	LockTimeout time.Duration

	// Now returns the current time.
	Now func() time.Time

	// Location is the time zone dates are displayed in.
	Location *time.Location

	// Logger receives debug and warning logs.
	Logger *log.Logger
}

// File is the on-disk shape of a --config file.
type File struct {
	Path        string    `toml:"path"`
	FileName    string    `toml:"file_name"`
	AutoInit    *bool     `toml:"auto_init"`
	Color       *bool     `toml:"color"`
	LockTimeout *Duration `toml:"lock_timeout"`
}

// Duration is a time.Duration read from a TOML string such as "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", text)
	}
	d.Duration = v
	return nil
}

// Default returns a Config with default settings.
func Default() *Config {
	return &Config{
		Path:        DefaultDir,
		FileName:    DefaultFileName,
		LockTimeout: DefaultLockTimeout,
		Now:         time.Now,
		Location:    time.Local,
	}
}

// New creates a Config from defaults, overlaid with the config file at
// path if path is non-empty.
func New(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays settings from a TOML file. Unset keys keep their
// current value.
func (c *Config) LoadFile(path string) error {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("loading config file %s: unknown key %q", path, undecoded[0].String())
	}

	if f.Path != "" {
		c.Path = f.Path
	}
	if f.FileName != "" {
		if f.FileName != filepath.Base(f.FileName) {
			return fmt.Errorf("loading config file %s: file_name must not contain a directory: %q", path, f.FileName)
		}
		c.FileName = f.FileName
	}
	if f.AutoInit != nil {
		c.AutoInit = *f.AutoInit
	}
	if f.Color != nil {
		c.NoColor = !*f.Color
	}
	if f.LockTimeout != nil {
		c.LockTimeout = f.LockTimeout.Duration
	}
	return nil
}

// Finalize resolves Dir against the current working directory.
func (c *Config) Finalize() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	return c.FinalizeIn(cwd)
}

// FinalizeIn resolves Dir against cwd.
func (c *Config) FinalizeIn(cwd string) error {
	if c.FileName == "" {
		return errors.New("task list file name is empty")
	}
	c.Dir = ResolveDir(cwd, c.Path)
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return nil
}

// ResolveDir returns the absolute directory for override, relative paths
// being taken from cwd. An empty override means cwd itself.
func ResolveDir(cwd, override string) string {
	if override == "" {
		override = DefaultDir
	}
	if filepath.IsAbs(override) {
		return filepath.Clean(override)
	}
	return filepath.Join(cwd, override)
}

// TasksPath returns the absolute path of the task-list file.
func (c *Config) TasksPath() string {
	return filepath.Join(c.Dir, c.FileName)
}

// LockPath returns the path of the advisory lock file.
func (c *Config) LockPath() string {
	return c.TasksPath() + ".lock"
}
