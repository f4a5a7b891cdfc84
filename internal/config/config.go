package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after .env is loaded
const (
	EnvDBPath    = "INVOICER_DB_PATH"
	EnvOutputDir = "INVOICER_OUTPUT_DIR"
	EnvLogLevel  = "INVOICER_LOG_LEVEL"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Document numbering
	Numbering NumberingConfig `yaml:"numbering"`

	// Rendered document output
	Output OutputConfig `yaml:"output"`

	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type NumberingConfig struct {
	InvoicePrefix string `yaml:"invoice_prefix"` // e.g. "INV" gives INV-0001
	ReceiptPrefix string `yaml:"receipt_prefix"`
}

type OutputConfig struct {
	InvoiceDir string `yaml:"invoice_dir"`
	ReceiptDir string `yaml:"receipt_dir"`
	PageSize   string `yaml:"page_size"` // letter or a4
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`  // log file; empty discards logs
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "invoicer")
	}
	return filepath.Join(homeDir, ".config", "invoicer")
}

// DefaultConfigPath returns ~/.config/invoicer/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := configDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "invoicer.db"),
		},
		Numbering: NumberingConfig{
			InvoicePrefix: "INV",
			ReceiptPrefix: "REC",
		},
		Output: OutputConfig{
			InvoiceDir: filepath.Join(dir, "pdfs", "invoices"),
			ReceiptDir: filepath.Join(dir, "pdfs", "receipts"),
			PageSize:   "letter",
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "invoicer.log"),
		},
	}
}

// Load loads config from the given path, or defaults if the file doesn't
// exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads .env from the working directory, if any, and then the
// default config path.
func LoadDefault() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(DefaultConfigPath())
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.InvoiceDir = filepath.Join(v, "invoices")
		c.Output.ReceiptDir = filepath.Join(v, "receipts")
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail deep inside a command
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if strings.TrimSpace(c.Numbering.InvoicePrefix) == "" || strings.TrimSpace(c.Numbering.ReceiptPrefix) == "" {
		return errors.New("numbering prefixes cannot be empty")
	}
	if c.Numbering.InvoicePrefix == c.Numbering.ReceiptPrefix {
		return errors.New("invoice and receipt prefixes must differ")
	}
	switch strings.ToLower(c.Output.PageSize) {
	case "letter", "a4":
	default:
		return fmt.Errorf("output.page_size must be letter or a4, got %q", c.Output.PageSize)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database and document output directories
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		c.Output.InvoiceDir,
		c.Output.ReceiptDir,
	}
	if c.Log.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Log.Path))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// Keys lists the settings Set accepts, in display order
var Keys = []string{
	"database.path",
	"numbering.invoice_prefix",
	"numbering.receipt_prefix",
	"output.invoice_dir",
	"output.receipt_dir",
	"output.page_size",
	"log.level",
	"log.path",
}

// Set assigns one setting by its dotted key and validates the result
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "database.path":
		next.Database.Path = value
	case "numbering.invoice_prefix":
		next.Numbering.InvoicePrefix = strings.ToUpper(strings.TrimSpace(value))
	case "numbering.receipt_prefix":
		next.Numbering.ReceiptPrefix = strings.ToUpper(strings.TrimSpace(value))
	case "output.invoice_dir":
		next.Output.InvoiceDir = value
	case "output.receipt_dir":
		next.Output.ReceiptDir = value
	case "output.page_size":
		next.Output.PageSize = strings.ToLower(value)
	case "log.level":
		next.Log.Level = value
	case "log.path":
		next.Log.Path = value
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys, ", "))
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
