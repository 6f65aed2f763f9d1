package disqus

import (
	"errors"
	"fmt"
)

var (
	ErrShortnameUnset   = errors.New("disqus_shortname config value must be set for the disqus extension to work.")
	ErrShortnameInvalid = errors.New("disqus_shortname config value must be 3-50 letters, numbers, and hyphens only.")
	ErrNoTitle          = errors.New("No title nodes found in document, cannot derive disqus_identifier config value.")
)

// ConfigError reports an unusable build configuration. It aborts the whole build.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DocumentError reports a failure confined to one document.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
