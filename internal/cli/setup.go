package cli

import (
	"flag"
	"fmt"
	"io"
	"msgidscope/internal/config"
	"msgidscope/internal/global"
	"os"
)

// Setup options
func SetupMode(cliOpts *global.CommandSet, commandname string, args []string) {
	var newConf bool
	var checkConf bool
	var templateConfPath string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	commandFlags.StringVar(&templateConfPath, "c", global.DefaultConfigPath, "Path to config file (.json, .yaml or .yml)")
	commandFlags.StringVar(&templateConfPath, "config", global.DefaultConfigPath, "Path to config file (.json, .yaml or .yml)")
	commandFlags.BoolVar(&newConf, "config-template", false, "Create new template config for the query daemon (using config argument)")
	commandFlags.BoolVar(&checkConf, "check", false, "Validate the config file and print the effective settings")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	var err error

	if newConf {
		var written bool
		written, err = config.CreateTemplateConfig(templateConfPath)
		if err == nil && written {
			fmt.Printf("Template configuration written to %s\n", templateConfPath)
		}
	} else if checkConf {
		err = checkConfig(templateConfPath, os.Stdout)
	} else {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Loads and validates a config file, printing the settings the daemon would run with
func checkConfig(path string, out io.Writer) (err error) {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return
	}
	cfg, err := config.NewServeConf(fileCfg)
	if err != nil {
		return
	}

	format := cfg.OutputFormat
	if format == "" {
		format = "(terminal dependent)"
	}

	fmt.Fprintf(out, "Configuration %s is valid\n", path)
	fmt.Fprintf(out, "  listen:        %s:%d (reuse port: %t)\n", cfg.ListenAddr, cfg.ListenPort, cfg.ReusePort)
	fmt.Fprintf(out, "  legacy zone:   %s\n", cfg.Location)
	fmt.Fprintf(out, "  metrics:       %t at %s\n", cfg.MetricsEnabled, cfg.MetricsPath)
	fmt.Fprintf(out, "  output format: %s\n", format)
	fmt.Fprintf(out, "  log level:     %d\n", cfg.LogLevel)
	return
}
