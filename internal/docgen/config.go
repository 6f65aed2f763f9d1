package docgen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/zellyn/disqusdoc/internal/disqus"
)

// DefaultConfigFile is looked up in the source directory when no config
// file is given.
const DefaultConfigFile = "docs.yaml"

// Config is the build configuration file.
type Config struct {
	Disqus disqus.Config `yaml:",inline"`
}

// LoadConfig reads a YAML build configuration. A missing file yields the
// zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Override applies a single key=value setting on top of cfg.
func (c *Config) Override(setting string) error {
	key, value, ok := strings.Cut(setting, "=")
	if !ok {
		return fmt.Errorf("invalid override %q, expected key=value", setting)
	}
	switch strings.TrimSpace(key) {
	case "disqus_shortname":
		c.Disqus.Shortname = value
	case "disqus_identifier":
		c.Disqus.Identifier = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
