package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"msgidscope/internal/probe"
	"msgidscope/pkg/msgid"
	"os"
)

func ProbeMode(ctx context.Context, cliOpts *global.CommandSet, commandname string, args []string) {
	var configPath string
	var format string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	SetOutputFormat(commandFlags, &format)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	commandFlags.Parse(args[0:])
	applyVerbosity(ctx)

	format, err := formatFromConfig(configPath, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = runProbe(ctx, probe.NewProber(), format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func VersionsMode(ctx context.Context, cliOpts *global.CommandSet, commandname string, args []string) {
	var configPath string
	var format string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	SetOutputFormat(commandFlags, &format)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	commandFlags.Parse(args[0:])
	applyVerbosity(ctx)

	format, err := formatFromConfig(configPath, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = writeVersions(os.Stdout, format, msgid.KnownVersions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func formatFromConfig(configPath string, requested string) (format string, err error) {
	cfg, loaded, err := loadRuntimeConfig(configPath)
	if err != nil {
		return
	}
	format, err = resolveFormat(requested, cfg, loaded)
	return
}

func runProbe(ctx context.Context, prober *probe.Prober, format string, out io.Writer) (err error) {
	report, err := prober.Run(ctx)
	if err != nil {
		err = fmt.Errorf("address probe failed: %v", err)
		return
	}

	if report.Synthetic() {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"No interface reported a hardware address, showing a random stand-in\n")
	}

	err = writeProbeReport(out, format, report)
	return
}
