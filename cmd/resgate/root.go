package main

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/resgate/internal/config"
	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/errors"
	"github.com/five82/resgate/internal/logging"
	"github.com/five82/resgate/internal/reporter"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	out     io.Writer
	errOut  io.Writer
	cfgFile string
	cfg     *config.Config
	runLog  *logging.Logger
}

// execute runs one CLI invocation with args.
func execute(ctx context.Context, out, errOut io.Writer, args []string) error {
	a := &app{v: viper.New(), out: out, errOut: errOut}
	defer a.teardown()

	root := a.newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Bitrate gate for resolution increases",
		Long: `resgate decides whether a video stream may move to a higher resolution
given the encoder's target bitrate and its per-resolution bitrate limits.

Use the subcommands to evaluate single proposals or replay scenario files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/resgate/config.yaml)")
	pf.String("preset", string(config.PresetDefault), "limit table preset (default, strict, none)")
	pf.String("limits-file", "", "YAML limit table file, overrides --preset")
	pf.StringP("format", "f", config.DefaultOutputFormat, "output format (terminal, json, table)")
	pf.BoolP("verbose", "v", false, "verbose output (sets log level to debug)")
	pf.String("log-dir", "", "write a JSON run log to this directory")

	root.AddCommand(
		a.newCheckCmd(),
		a.newReplayCmd(),
		a.newLimitsCmd(),
		a.newVersionCmd(),
	)
	return root
}

// setup layers configuration (flags > RESGATE_* env > config file >
// defaults) and initializes logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.NewConfigError("failed to bind flags", err)
	}
	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !stderrors.As(err, &notFound) {
			return errors.NewConfigError("failed to read config file", err)
		}
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := logging.LevelWarn
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	logging.Init(level, a.errOut)

	runLog, err := logging.Setup(cfg.LogDir, cfg.Verbose, cfg.NoLog)
	if err != nil {
		return errors.NewIOError("failed to setup logging", err)
	}
	if runLog != nil {
		a.runLog = runLog
		logging.SetGlobal(runLog)
	}
	logging.Debug("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"preset", cfg.LimitsPreset.String(),
		"limits_file", cfg.LimitsFile,
		"format", cfg.OutputFormat)
	return nil
}

func (a *app) teardown() {
	if a.runLog != nil {
		_ = a.runLog.Close()
		a.runLog = nil
		logging.Init(logging.LevelWarn, a.errOut)
	}
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()

	preset, err := config.ParsePreset(a.v.GetString("preset"))
	if err != nil {
		return nil, errors.NewConfigError("invalid preset", err)
	}
	cfg.ApplyPreset(preset)
	cfg.LimitsFile = a.v.GetString("limits-file")
	cfg.OutputFormat = strings.ToLower(a.v.GetString("format"))
	cfg.Verbose = a.v.GetBool("verbose")
	cfg.LogDir = a.v.GetString("log-dir")
	cfg.NoLog = cfg.LogDir == ""

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// limits resolves the configured limit table and names its source.
func (a *app) limits() (source string, limits []encoder.ResolutionBitrateLimits, err error) {
	limits, err = a.cfg.Limits()
	if err != nil {
		return "", nil, errors.NewLimitTableError(a.cfg.LimitsFile, err)
	}
	if a.cfg.LimitsFile != "" {
		return a.cfg.LimitsFile, limits, nil
	}
	return a.cfg.LimitsPreset.String(), limits, nil
}

func (a *app) newReporter() reporter.Reporter {
	switch a.cfg.OutputFormat {
	case "json":
		return reporter.NewJSONReporterWithWriter(a.out)
	case "table":
		return reporter.NewTableReporterWithWriter(a.out)
	default:
		if a.out == os.Stdout {
			return reporter.NewTerminalReporter()
		}
		return reporter.NewTerminalReporterWithWriter(a.out, a.errOut, false)
	}
}
