package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Config holds application configuration.
type Config struct {
	// Separator is placed between title and context in free-form logs.
	// Only the first character is used.
	Separator string `json:"separator,omitempty"`

	// TraceSeparator is placed between function and context in trace logs.
	TraceSeparator string `json:"trace_separator,omitempty"`

	// Timestamp stamps free-form entries by default. Nil means unset, so a
	// repo config can turn off a globally enabled default.
	Timestamp *bool `json:"timestamp,omitempty"`

	// ShowTime prints timestamps on trace lines by default.
	ShowTime *bool `json:"show_time,omitempty"`

	// MaxSessions caps the number of logs held open by the MCP server.
	MaxSessions int `json:"max_sessions,omitempty"`

	// DBMaxOpenConns limits the maximum number of open journal connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle journal connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Separator:      ":",
		TraceSeparator: ":",
		MaxSessions:    64,
	}
}

// SeparatorRune returns the first character of Separator, or ':' if it is empty.
func (c *Config) SeparatorRune() rune {
	if c == nil || c.Separator == "" {
		return ':'
	}
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}

// StampEntries reports whether free-form entries are stamped by default.
func (c *Config) StampEntries() bool {
	return c != nil && c.Timestamp != nil && *c.Timestamp
}

// ShowTimes reports whether trace lines show their time by default.
func (c *Config) ShowTimes() bool {
	return c != nil && c.ShowTime != nil && *c.ShowTime
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both the global directory and the
// nearest .logfile/config.json found walking upward from startDir.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .logfile/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".logfile", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars (booleans when explicitly set);
// arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Separator = firstNonEmpty(overlay.Separator, base.Separator)
	result.TraceSeparator = firstNonEmpty(overlay.TraceSeparator, base.TraceSeparator)

	result.MaxSessions = overlay.MaxSessions
	if result.MaxSessions == 0 {
		result.MaxSessions = base.MaxSessions
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.Timestamp = firstSet(overlay.Timestamp, base.Timestamp)
	result.ShowTime = firstSet(overlay.ShowTime, base.ShowTime)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstSet(a, b *bool) *bool {
	if a != nil {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
