// Package config turns flags, environment and an optional config file into a Config
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. DIRMIRROR_DRY_RUN
const EnvPrefix = "DIRMIRROR"

// Version is reported by --version
const Version = "1.0.0"

// Config holds all application configuration settings
type Config struct {
	// Trees
	Source      string
	Destination string
	IgnoreFile  string

	// Mirroring behavior
	MatchMode   string
	DeleteOrder string
	DryRun      bool
	MtimeWindow time.Duration
	Concurrent  bool
	MaxWorkers  int
	Strict      bool
	Timeout     time.Duration

	// Watch mode
	Watch    bool
	Debounce time.Duration

	// Output
	Verbose     bool
	Quiet       bool
	LogLevel    string
	NoColor     bool
	UseColors   bool
	JSONOutput  bool
	ShowSkipped bool
	Progress    bool
}

// RegisterFlags declares the command's flags and binds each one to v
// together with its DIRMIRROR_* environment variable
func RegisterFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	flags.String("config", "", "YAML config file with flag values")
	flags.String("ignore-file", "", "file with one ignore rule per line (third argument overrides)")
	flags.String("match-mode", "substring", "how ignore patterns match: substring, prefix, glob, gitignore")
	flags.String("delete-order", "depth", "deletion order: depth (children first) or lexical")
	flags.Bool("dry-run", false, "report what would change without touching the destination")
	flags.Duration("mtime-window", 0, "treat modification times this close as equal (e.g. 2s for FAT)")
	flags.Bool("concurrent", false, "copy files with a worker pool")
	flags.Int("workers", runtime.NumCPU(), "number of copy workers when --concurrent is set")
	flags.Bool("strict", false, "exit non-zero when any copy or deletion failed")
	flags.Duration("timeout", 0, "abort a run after this long (0 = no limit)")
	flags.Bool("watch", false, "keep running and mirror again whenever the source changes")
	flags.Duration("debounce", 500*time.Millisecond, "quiet period before a watch-triggered run")
	flags.Bool("verbose", false, "shorthand for --log-level=debug")
	flags.Bool("quiet", false, "only print warnings and errors")
	flags.String("log-level", "info", "log level: debug, info, warn, error, none")
	flags.Bool("no-color", false, "disable color output")
	flags.Bool("json", false, "print actions as JSON lines")
	flags.Bool("show-skipped", false, "list ignored and skipped paths at the end")
	flags.Bool("progress", false, "show a progress line while the source is walked")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v.BindPFlags(flags)
}

// Load reads the optional config file named by the "config" key and
// builds a Config from v and the positional arguments
func Load(v *viper.Viper, args []string) (*Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("config: need <source> and <destination>, got %d arguments", len(args))
	}

	c := &Config{
		Source:      args[0],
		Destination: args[1],
		IgnoreFile:  v.GetString("ignore-file"),
		MatchMode:   v.GetString("match-mode"),
		DeleteOrder: v.GetString("delete-order"),
		DryRun:      v.GetBool("dry-run"),
		MtimeWindow: v.GetDuration("mtime-window"),
		Concurrent:  v.GetBool("concurrent"),
		MaxWorkers:  v.GetInt("workers"),
		Strict:      v.GetBool("strict"),
		Timeout:     v.GetDuration("timeout"),
		Watch:       v.GetBool("watch"),
		Debounce:    v.GetDuration("debounce"),
		Verbose:     v.GetBool("verbose"),
		Quiet:       v.GetBool("quiet"),
		LogLevel:    v.GetString("log-level"),
		NoColor:     v.GetBool("no-color"),
		JSONOutput:  v.GetBool("json"),
		ShowSkipped: v.GetBool("show-skipped"),
		Progress:    v.GetBool("progress"),
	}
	if len(args) > 2 {
		c.IgnoreFile = args[2]
	}
	if c.Verbose {
		c.LogLevel = "debug"
	} else if c.Quiet {
		c.LogLevel = "warn"
	}

	// Determine if colors should be used
	c.UseColors = !c.NoColor && !c.JSONOutput && isatty.IsTerminal(os.Stderr.Fd())

	return c, nil
}
