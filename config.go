package simpleprofile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/simpleprofile/unit"
)

// ErrInvalidConfig indicates a profiling configuration that cannot produce
// a valid [Profiler].
var ErrInvalidConfig = errors.New("invalid profiling configuration")

// Flags holds CLI flag names for profiling configuration, allowing callers
// to customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Name            string
	Iterations      string
	PrintArgs       string
	PrintResult     string
	Separator       string
	MemoryUnit      string
	TimeUnit        string
	MemoryPrecision string
	TimePrecision   string
	Precision       string
	EnableGC        string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:           f,
		Iterations:      DefaultIterations,
		Separator:       DefaultSeparator,
		MemoryPrecision: DefaultPrecision,
		TimePrecision:   DefaultPrecision,
	}
}

// Defaults for [Config] fields.
const (
	DefaultIterations = 1000000
	DefaultSeparator  = " | "
	DefaultPrecision  = 4
)

// Config holds profiling configuration, bound once per wrapped function.
// All options are fixed for the lifetime of the wrapped callable.
//
// Create instances with [NewConfig] or [LoadConfig], optionally register
// CLI flags with [Config.RegisterFlags], then call [Config.NewProfiler] to
// validate the options and obtain a [Profiler] for wrapping functions.
type Config struct {
	Flags Flags `yaml:"-"`

	// Name overrides the log label; empty means the wrapped function's
	// own resolved name.
	Name string `yaml:"name"`
	// Iterations is the number of timed invocations per profiled call.
	Iterations int `yaml:"iterations"`
	// PrintArgs includes the call's arguments in the log line.
	PrintArgs bool `yaml:"print_args"`
	// PrintResult includes the call's result in the log line.
	PrintResult bool `yaml:"print_result"`
	// Separator joins the log line blocks.
	Separator string `yaml:"separator"`
	// MemoryUnit and TimeUnit are unit labels ("kB", "ms", ...); empty
	// means auto-selection.
	MemoryUnit string `yaml:"memory_unit"`
	TimeUnit   string `yaml:"time_unit"`
	// MemoryPrecision and TimePrecision are significant-digit counts.
	MemoryPrecision int `yaml:"memory_precision"`
	TimePrecision   int `yaml:"time_precision"`
	// Precision, when non-zero, overrides both precisions.
	Precision int `yaml:"precision"`
	// EnableGC leaves garbage collection enabled during timing. Default
	// off, for deterministic readings.
	EnableGC bool `yaml:"enable_gc"`

	// Output receives the profiled call log lines. Defaults to stdout.
	Output io.Writer `yaml:"-"`
	// Logger receives wrap-time diagnostics at debug level. Defaults to
	// a discarding logger.
	Logger *slog.Logger `yaml:"-"`
}

// NewConfig creates a new [Config] with default flag names and default
// option values. Use [Config.RegisterFlags] to add CLI flags, or set
// fields directly.
func NewConfig() *Config {
	f := Flags{
		Name:            "profile-name",
		Iterations:      "profile-iterations",
		PrintArgs:       "profile-args",
		PrintResult:     "profile-result",
		Separator:       "profile-separator",
		MemoryUnit:      "memory-unit",
		TimeUnit:        "time-unit",
		MemoryPrecision: "memory-precision",
		TimePrecision:   "time-precision",
		Precision:       "profile-precision",
		EnableGC:        "profile-gc",
	}

	return f.NewConfig()
}

// LoadConfig reads a [Config] from a YAML file. Unknown keys are rejected.
// Fields absent from the file keep their [NewConfig] defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from the caller is expected.
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c := NewConfig()

	err = yaml.UnmarshalWithOptions(data, c, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return c, nil
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet], using
// the current field values as flag defaults.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Name, c.Flags.Name, c.Name, "profile log label (default: function name)")
	flags.IntVar(&c.Iterations, c.Flags.Iterations, c.Iterations, "timed invocations per profiled call")
	flags.BoolVar(&c.PrintArgs, c.Flags.PrintArgs, c.PrintArgs, "log the call's arguments")
	flags.BoolVar(&c.PrintResult, c.Flags.PrintResult, c.PrintResult, "log the call's result")
	flags.StringVar(&c.Separator, c.Flags.Separator, c.Separator, "separator between log blocks")
	flags.StringVar(&c.MemoryUnit, c.Flags.MemoryUnit, c.MemoryUnit, "memory unit label (default: auto-select)")
	flags.StringVar(&c.TimeUnit, c.Flags.TimeUnit, c.TimeUnit, "time unit label (default: auto-select)")
	flags.IntVar(&c.MemoryPrecision, c.Flags.MemoryPrecision, c.MemoryPrecision, "memory significant digits")
	flags.IntVar(&c.TimePrecision, c.Flags.TimePrecision, c.TimePrecision, "time significant digits")
	flags.IntVar(&c.Precision, c.Flags.Precision, c.Precision, "significant digits for all values (overrides both)")
	flags.BoolVar(&c.EnableGC, c.Flags.EnableGC, c.EnableGC, "keep garbage collection enabled during timing")
}

// RegisterCompletions registers shell completions for profiling flags on
// cmd. Unit flags complete from their family's label list; numeric flags
// disable file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	unitFlags := map[string][]string{
		c.Flags.MemoryUnit: unit.Memory.Labels(),
		c.Flags.TimeUnit:   unit.Time.Labels(),
	}

	for name, labels := range unitFlags {
		err := cmd.RegisterFlagCompletionFunc(name,
			cobra.FixedCompletions(labels, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, name := range []string{
		c.Flags.Iterations,
		c.Flags.MemoryPrecision,
		c.Flags.TimePrecision,
		c.Flags.Precision,
	} {
		err := cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// NewProfiler validates the configuration and creates a [Profiler] from it.
// Invalid options (non-positive iterations or precision, unknown unit
// labels) fail here, not on the first profiled call.
func (c *Config) NewProfiler() (*Profiler, error) {
	if c.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidConfig, c.Iterations)
	}

	memoryPrecision := c.MemoryPrecision
	timePrecision := c.TimePrecision

	if c.Precision != 0 {
		memoryPrecision = c.Precision
		timePrecision = c.Precision
	}

	if memoryPrecision < 1 || timePrecision < 1 {
		return nil, fmt.Errorf("%w: precision must be >= 1, got memory=%d time=%d",
			ErrInvalidConfig, memoryPrecision, timePrecision)
	}

	p := &Profiler{
		name:            c.Name,
		iterations:      c.Iterations,
		printArgs:       c.PrintArgs,
		printResult:     c.PrintResult,
		separator:       c.Separator,
		memoryPrecision: memoryPrecision,
		timePrecision:   timePrecision,
		enableGC:        c.EnableGC,
		out:             c.Output,
		logger:          c.Logger,
	}

	if c.MemoryUnit != "" {
		u, err := unit.Memory.Parse(c.MemoryUnit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		p.memoryUnit = &u
	}

	if c.TimeUnit != "" {
		u, err := unit.Time.Parse(c.TimeUnit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		p.timeUnit = &u
	}

	if p.out == nil {
		p.out = os.Stdout
	}

	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	return p, nil
}
