package simpleprofile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/simpleprofile"
	"go.jacobcolvin.com/simpleprofile/stringtest"
	"go.jacobcolvin.com/simpleprofile/unit"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := simpleprofile.NewConfig()

	assert.Empty(t, cfg.Name)
	assert.Equal(t, simpleprofile.DefaultIterations, cfg.Iterations)
	assert.False(t, cfg.PrintArgs)
	assert.False(t, cfg.PrintResult)
	assert.Equal(t, simpleprofile.DefaultSeparator, cfg.Separator)
	assert.Empty(t, cfg.MemoryUnit)
	assert.Empty(t, cfg.TimeUnit)
	assert.Equal(t, simpleprofile.DefaultPrecision, cfg.MemoryPrecision)
	assert.Equal(t, simpleprofile.DefaultPrecision, cfg.TimePrecision)
	assert.Zero(t, cfg.Precision)
	assert.False(t, cfg.EnableGC)
}

func TestConfig_RegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := simpleprofile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	wantFlags := []string{
		"profile-name",
		"profile-iterations",
		"profile-args",
		"profile-result",
		"profile-separator",
		"memory-unit",
		"time-unit",
		"memory-precision",
		"time-precision",
		"profile-precision",
		"profile-gc",
	}

	for _, name := range wantFlags {
		flag := flags.Lookup(name)
		require.NotNil(t, flag, "flag %s should be registered", name)
	}
}

func TestConfig_RegisterFlags_Parsing(t *testing.T) {
	t.Parallel()

	cfg := simpleprofile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	err := flags.Parse([]string{
		"--profile-name=hot-path",
		"--profile-iterations=1000",
		"--profile-args",
		"--profile-result",
		"--profile-separator= :: ",
		"--memory-unit=kiB",
		"--time-unit=ms",
		"--memory-precision=3",
		"--time-precision=5",
		"--profile-gc",
	})
	require.NoError(t, err)

	assert.Equal(t, "hot-path", cfg.Name)
	assert.Equal(t, 1000, cfg.Iterations)
	assert.True(t, cfg.PrintArgs)
	assert.True(t, cfg.PrintResult)
	assert.Equal(t, " :: ", cfg.Separator)
	assert.Equal(t, "kiB", cfg.MemoryUnit)
	assert.Equal(t, "ms", cfg.TimeUnit)
	assert.Equal(t, 3, cfg.MemoryPrecision)
	assert.Equal(t, 5, cfg.TimePrecision)
	assert.True(t, cfg.EnableGC)
}

func TestConfig_RegisterCompletions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"memory-unit completions": {
			flag: "memory-unit",
			want: unit.Memory.Labels(),
		},
		"time-unit completions": {
			flag: "time-unit",
			want: unit.Time.Labels(),
		},
		"profile-iterations completions": {
			flag: "profile-iterations",
			want: nil,
		},
		"profile-precision completions": {
			flag: "profile-precision",
			want: nil,
		},
	}

	cfg := simpleprofile.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	err := cfg.RegisterCompletions(cmd)
	require.NoError(t, err)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			completionFn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := completionFn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")

	content := stringtest.JoinLF(
		"name: fibonacci",
		"iterations: 500",
		"print_args: true",
		"memory_unit: kiB",
		"precision: 6",
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := simpleprofile.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "fibonacci", cfg.Name)
	assert.Equal(t, 500, cfg.Iterations)
	assert.True(t, cfg.PrintArgs)
	assert.Equal(t, "kiB", cfg.MemoryUnit)
	assert.Equal(t, 6, cfg.Precision)

	// Unset fields keep their defaults.
	assert.False(t, cfg.PrintResult)
	assert.Equal(t, simpleprofile.DefaultSeparator, cfg.Separator)
	assert.Equal(t, simpleprofile.DefaultPrecision, cfg.TimePrecision)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content string
		missing bool
	}{
		"missing file": {
			missing: true,
		},
		"unknown key": {
			content: "iterationz: 500",
		},
		"malformed yaml": {
			content: "iterations: [",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "profile.yaml")
			if !tc.missing {
				require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			}

			_, err := simpleprofile.LoadConfig(path)
			require.Error(t, err)
		})
	}
}

func TestConfig_NewProfiler_Validation(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mutate      func(*simpleprofile.Config)
		expectError bool
	}{
		"defaults are valid": {
			mutate: func(*simpleprofile.Config) {},
		},
		"explicit units are valid": {
			mutate: func(c *simpleprofile.Config) {
				c.MemoryUnit = "MiB"
				c.TimeUnit = "µs"
			},
		},
		"zero iterations": {
			mutate:      func(c *simpleprofile.Config) { c.Iterations = 0 },
			expectError: true,
		},
		"negative iterations": {
			mutate:      func(c *simpleprofile.Config) { c.Iterations = -1 },
			expectError: true,
		},
		"zero memory precision": {
			mutate:      func(c *simpleprofile.Config) { c.MemoryPrecision = 0 },
			expectError: true,
		},
		"negative time precision": {
			mutate:      func(c *simpleprofile.Config) { c.TimePrecision = -2 },
			expectError: true,
		},
		"negative combined precision": {
			mutate:      func(c *simpleprofile.Config) { c.Precision = -1 },
			expectError: true,
		},
		"combined precision overrides invalid per-family values": {
			mutate: func(c *simpleprofile.Config) {
				c.MemoryPrecision = 0
				c.TimePrecision = 0
				c.Precision = 2
			},
		},
		"unknown memory unit": {
			mutate:      func(c *simpleprofile.Config) { c.MemoryUnit = "floppies" },
			expectError: true,
		},
		"unknown time unit": {
			mutate:      func(c *simpleprofile.Config) { c.TimeUnit = "fortnights" },
			expectError: true,
		},
		"time unit label in memory slot": {
			mutate:      func(c *simpleprofile.Config) { c.MemoryUnit = "ms" },
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := simpleprofile.NewConfig()
			tc.mutate(cfg)

			p, err := cfg.NewProfiler()
			if tc.expectError {
				require.ErrorIs(t, err, simpleprofile.ErrInvalidConfig)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, p)
			}
		})
	}
}

func TestProfiler_FormatValues(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mutate     func(*simpleprofile.Config)
		wantMemory string
		wantTime   string
	}{
		"auto-selected units": {
			mutate:     func(*simpleprofile.Config) {},
			wantMemory: "1.536 kB",
			wantTime:   "12.34 ms",
		},
		"explicit units": {
			mutate: func(c *simpleprofile.Config) {
				c.MemoryUnit = "kiB"
				c.TimeUnit = "s"
			},
			wantMemory: "1.5 kiB",
			wantTime:   "0.01234 s",
		},
		"combined precision": {
			mutate:     func(c *simpleprofile.Config) { c.Precision = 2 },
			wantMemory: "1.5 kB",
			wantTime:   "12 ms",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := simpleprofile.NewConfig()
			tc.mutate(cfg)

			p, err := cfg.NewProfiler()
			require.NoError(t, err)

			assert.Equal(t, tc.wantMemory, p.FormatMemory(1536))
			assert.Equal(t, tc.wantTime, p.FormatTime(0.01234))
		})
	}
}
