package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".giztoy"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config represents the configuration file of a CLI app
type Config struct {
	// AppName is the application name (e.g., "ringbuf")
	AppName string `yaml:"-" json:"-"`

	// CurrentProfile is the name of the currently active profile
	CurrentProfile string `yaml:"current_profile,omitempty" json:"current_profile,omitempty"`

	// Profiles is a map of profile name to workload profile
	Profiles map[string]*Profile `yaml:"profiles,omitempty" json:"profiles,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Profile is a named workload definition.
// Zero fields fall back to the command's defaults.
type Profile struct {
	// Name is the profile name
	Name string `yaml:"name" json:"name"`

	// Capacity is the ring buffer size in bytes
	Capacity int `yaml:"capacity,omitempty" json:"capacity,omitempty"`

	// Producers is the number of producer goroutines
	Producers int `yaml:"producers,omitempty" json:"producers,omitempty"`

	// Consumers is the number of consumer goroutines
	Consumers int `yaml:"consumers,omitempty" json:"consumers,omitempty"`

	// WriteSize is the span size of every enqueue
	WriteSize int `yaml:"write_size,omitempty" json:"write_size,omitempty"`

	// ReadSize is the span size of every dequeue
	ReadSize int `yaml:"read_size,omitempty" json:"read_size,omitempty"`

	// TotalBytes is the number of bytes produced across all producers
	TotalBytes int64 `yaml:"total_bytes,omitempty" json:"total_bytes,omitempty"`

	// Duration bounds the run time (e.g. "5s"); empty means unbounded
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`

	// Seed seeds the producers' payload generator
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// ParseDuration returns the profile duration, or 0 if it is not set.
func (p *Profile) ParseDuration() (time.Duration, error) {
	if p.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Duration)
	if err != nil {
		return 0, fmt.Errorf("profile %q: invalid duration %q: %w", p.Name, p.Duration, err)
	}
	return d, nil
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	var configPath string

	if customPath != "" {
		configPath = customPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, appName, DefaultConfigFile)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Profiles:   make(map[string]*Profile),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}
	for name, p := range cfg.Profiles {
		if p == nil {
			return nil, fmt.Errorf("failed to parse config: profile %q is empty", name)
		}
		p.Name = name
	}

	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddProfile adds or replaces a profile
func (c *Config) AddProfile(name string, p *Profile) error {
	p.Name = name
	c.Profiles[name] = p
	return c.Save()
}

// DeleteProfile removes a profile
func (c *Config) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return c.Save()
}

// UseProfile sets the current profile
func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile returns a specific profile
func (c *Config) GetProfile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// ResolveProfile returns the profile by name, the current profile if name is
// empty, or an empty profile if neither is set.
func (c *Config) ResolveProfile(name string) (*Profile, error) {
	if name != "" {
		return c.GetProfile(name)
	}
	if c.CurrentProfile != "" {
		return c.GetProfile(c.CurrentProfile)
	}
	return &Profile{}, nil
}

// ListProfiles returns all profile names in sorted order
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
