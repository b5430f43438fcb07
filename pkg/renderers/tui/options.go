package tui

// Theme captures optional message prefixes the session applies when printing.
type Theme struct {
	InfoPrefix  string
	AlertPrefix string
}

// DefaultTheme marks alerts so they stand out from prompt output.
func DefaultTheme() Theme {
	return Theme{AlertPrefix: "! "}
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLabels sets prompt labels keyed by field id.
func WithLabels(labels map[string]string) Option {
	return func(s *Session) {
		if len(labels) == 0 {
			return
		}
		s.labels = make(map[string]string, len(labels))
		for id, label := range labels {
			s.labels[id] = label
		}
	}
}

// WithDefaults seeds prompt defaults keyed by field id. For file fields the
// default is a comma separated list of paths.
func WithDefaults(defaults map[string]string) Option {
	return func(s *Session) {
		for id, value := range defaults {
			s.defaults[id] = value
		}
	}
}
