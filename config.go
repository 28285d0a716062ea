package thompson

// Config controls compilation and search behavior.
//
// Example:
//
//	config := thompson.DefaultConfig()
//	config.EnablePrefilter = false // always run the VM from the search start
//	re, err := thompson.CompileWithConfig("(a|b)+c", config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering.
	// When false, no prefilter is used even if literals are available.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals extracted for the
	// prefilter. Patterns needing more get no prefilter.
	// Default: 64
	MaxLiterals int

	// MinLiteralLen is the minimum length of the shortest prefix literal
	// for a prefilter to be built.
	// Default: 1
	MinLiteralLen int

	// MaxRecursionDepth limits group and quantifier nesting, both while
	// parsing and while compiling.
	// Default: 1000
	MaxRecursionDepth int

	// Capture makes Find, FindAt, Next and FindAll record capture groups.
	// Replace and ReplaceAll always record them.
	// Default: true
	Capture bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:   true,
		MaxLiterals:       64,
		MinLiteralLen:     1,
		MaxRecursionDepth: 1000,
		Capture:           true,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxLiterals: 1 to 1,000 (only checked with EnablePrefilter)
//   - MinLiteralLen: 1 to 64 (only checked with EnablePrefilter)
//   - MaxRecursionDepth: 10 to 100,000
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 100_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 100,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "thompson: invalid config: " + e.Field + ": " + e.Message
}
