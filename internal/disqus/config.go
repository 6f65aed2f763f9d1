package disqus

import "regexp"

var shortnamePattern = regexp.MustCompile(`^[A-Za-z0-9-]{3,50}$`)

// Config holds the build-wide Disqus settings.
type Config struct {
	Shortname  string `yaml:"disqus_shortname"`
	Identifier string `yaml:"disqus_identifier"`
}

// Validate checks the shortname. Any error it returns is a *ConfigError.
func (c Config) Validate() error {
	if c.Shortname == "" {
		return &ConfigError{Key: "disqus_shortname", Err: ErrShortnameUnset}
	}
	if !shortnamePattern.MatchString(c.Shortname) {
		return &ConfigError{Key: "disqus_shortname", Value: c.Shortname, Err: ErrShortnameInvalid}
	}
	return nil
}
