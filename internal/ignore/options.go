package ignore

import "github.com/bethropolis/dir-mirror/internal/utils"

// Option functions for configuration
type Option func(*IgnoreMatcher)

// WithMode selects how patterns match paths. An empty mode keeps ModeSubstring.
func WithMode(mode Mode) Option {
	return func(m *IgnoreMatcher) {
		if mode != "" {
			m.mode = mode
		}
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(m *IgnoreMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithDisabled(disabled bool) Option {
	return func(m *IgnoreMatcher) {
		m.disabled = disabled
	}
}
