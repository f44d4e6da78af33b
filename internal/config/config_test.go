package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBound(t *testing.T, flagArgs ...string) *viper.Viper {
	t.Helper()
	cmd := &cobra.Command{Use: "dir-mirror"}
	v := viper.New()
	require.NoError(t, RegisterFlags(cmd, v))
	require.NoError(t, cmd.Flags().Parse(flagArgs))
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newBound(t), []string{"src", "dst"})
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Source)
	assert.Equal(t, "dst", cfg.Destination)
	assert.Equal(t, "", cfg.IgnoreFile)
	assert.Equal(t, "substring", cfg.MatchMode)
	assert.Equal(t, "depth", cfg.DeleteOrder)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.False(t, cfg.DryRun)
}

func TestLoadThirdArgumentIsIgnoreFile(t *testing.T) {
	cfg, err := Load(newBound(t, "--ignore-file", "flag.ignore"), []string{"src", "dst", "arg.ignore"})
	require.NoError(t, err)
	assert.Equal(t, "arg.ignore", cfg.IgnoreFile)
}

func TestLoadRequiresTwoArguments(t *testing.T) {
	_, err := Load(newBound(t), []string{"src"})
	assert.Error(t, err)
}

func TestLoadLayering(t *testing.T) {
	cases := []struct {
		name       string
		env        map[string]string
		cfg        string
		flags      []string
		wantDryRun bool
		wantMode   string
		wantWindow time.Duration
	}{
		{
			name:       "ConfigOnly",
			cfg:        "dry-run: true\nmatch-mode: glob\nmtime-window: 2s\n",
			wantDryRun: true,
			wantMode:   "glob",
			wantWindow: 2 * time.Second,
		},
		{
			name:       "EnvOverridesConfig",
			env:        map[string]string{"DIRMIRROR_MATCH_MODE": "prefix", "DIRMIRROR_DRY_RUN": "false"},
			cfg:        "dry-run: true\nmatch-mode: glob\n",
			wantDryRun: false,
			wantMode:   "prefix",
		},
		{
			name:       "FlagOverridesEnv",
			env:        map[string]string{"DIRMIRROR_MATCH_MODE": "prefix"},
			flags:      []string{"--match-mode", "gitignore", "--dry-run"},
			wantDryRun: true,
			wantMode:   "gitignore",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			flags := tc.flags
			if tc.cfg != "" {
				path := filepath.Join(t.TempDir(), "mirror.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tc.cfg), 0o644))
				flags = append(flags, "--config", path)
			}

			cfg, err := Load(newBound(t, flags...), []string{"src", "dst"})
			require.NoError(t, err)
			assert.Equal(t, tc.wantDryRun, cfg.DryRun)
			assert.Equal(t, tc.wantMode, cfg.MatchMode)
			assert.Equal(t, tc.wantWindow, cfg.MtimeWindow)
		})
	}
}

func TestLoadVerboseAndQuiet(t *testing.T) {
	cfg, err := Load(newBound(t, "--verbose", "--quiet"), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = Load(newBound(t, "--quiet"), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadJSONDisablesColors(t *testing.T) {
	cfg, err := Load(newBound(t, "--json"), []string{"a", "b"})
	require.NoError(t, err)
	assert.False(t, cfg.UseColors)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(newBound(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")), []string{"a", "b"})
	assert.Error(t, err)
}
