package cli

import (
	"context"
	"flag"
	"msgidscope/internal/config"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"os"

	"golang.org/x/term"
)

// Replaced in tests
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

func SetGlobalArguments(fs *flag.FlagSet) (requestedLogLevel *int) {
	requestedLogLevel = &global.Verbosity
	fs.IntVar(&global.Verbosity, "v", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	fs.IntVar(&global.Verbosity, "verbosity", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	return
}

// Subcommand flags are parsed after the logger exists
func applyVerbosity(ctx context.Context) {
	logctx.SetLogLevel(ctx, global.Verbosity)
}

func SetCommon(fs *flag.FlagSet, configPath *string) {
	fs.StringVar(configPath, "c", global.DefaultConfigPath, "Path to the configuration file")
	fs.StringVar(configPath, "config", global.DefaultConfigPath, "Path to the configuration file")
}

func SetOutputFormat(fs *flag.FlagSet, format *string) {
	fs.StringVar(format, "o", "", "Output format <text|json|msgpack> (text on a terminal, json otherwise)")
	fs.StringVar(format, "output", "", "Output format <text|json|msgpack> (text on a terminal, json otherwise)")
}

// Picks the output format: explicit flag, then config file, then terminal detection
func resolveFormat(requested string, cfg config.Config, configLoaded bool) (format string, err error) {
	format = requested
	if format == "" && configLoaded {
		format = cfg.OutputFormat
	}
	if format == "" {
		if isTerminal() {
			format = global.FormatText
		} else {
			format = global.FormatJSON
		}
	}

	err = config.ValidateFormat(format)
	return
}

// Loads runtime config from path. A missing file at the default path falls back to defaults.
func loadRuntimeConfig(path string) (cfg config.Config, loaded bool, err error) {
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) && path == global.DefaultConfigPath {
		cfg = config.Default()
		return
	}

	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return
	}
	cfg, err = config.NewServeConf(fileCfg)
	if err != nil {
		return
	}
	loaded = true
	return
}
