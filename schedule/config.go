package schedule

// Config holds tuning options for expansion and end-date solving
type Config struct {
	// MaxOccurrences caps a single expansion window to guard against
	// runaway rules (0 = use default)
	MaxOccurrences int

	// HorizonYears bounds the end-date solver's forward search. A target
	// that is not met within the horizon is reported as unsatisfiable.
	HorizonYears int

	// WindowStepYears is how much the solver grows its expansion window
	// per iteration. Each iteration is a fresh computation over the full
	// window, never an incremental mutation of prior state.
	WindowStepYears int
}

// DefaultConfig provides sensible defaults for production use
var DefaultConfig = Config{
	MaxOccurrences:  5000,
	HorizonYears:    5,
	WindowStepYears: 1,
}

// ExtendedHorizonConfig is for sparse schedules (e.g. monthly patterns
// with large targets) that legitimately need a longer lookahead
var ExtendedHorizonConfig = Config{
	MaxOccurrences:  20000,
	HorizonYears:    10,
	WindowStepYears: 2,
}

func (c Config) withDefaults() Config {
	if c.MaxOccurrences <= 0 {
		c.MaxOccurrences = DefaultConfig.MaxOccurrences
	}
	if c.HorizonYears <= 0 {
		c.HorizonYears = DefaultConfig.HorizonYears
	}
	if c.WindowStepYears <= 0 {
		c.WindowStepYears = DefaultConfig.WindowStepYears
	}
	return c
}
