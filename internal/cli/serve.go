package cli

import (
	"context"
	"flag"
	"fmt"
	"msgidscope/internal/daemon"
	"msgidscope/internal/global"
	"msgidscope/internal/lifecycle"
	"msgidscope/internal/logctx"
	"os"
)

func ServeMode(ctx context.Context, cliOpts *global.CommandSet, commandname string, args []string) {
	var configPath string
	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	commandFlags.Parse(args[0:])
	applyVerbosity(ctx)

	cfg, loaded, err := loadRuntimeConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !loaded {
		configPath = ""
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
			"No configuration file at %s, using defaults\n", global.DefaultConfigPath)
	}

	// Subscribe before listening so an early signal is not lost
	sigChan := lifecycle.NotifySignals()

	queryDaemon := daemon.NewDaemon(cfg, configPath)
	queryDaemon.MinLogLevel = global.Verbosity
	err = queryDaemon.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting query daemon: %v\n", err)
		os.Exit(1)
	}

	err = lifecycle.NotifyReady(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", err)
	}

	go lifecycle.SignalHandler(ctx, queryDaemon, sigChan)

	queryDaemon.Run()
}
