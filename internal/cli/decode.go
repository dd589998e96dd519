package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"msgidscope/internal/daemon"
	"msgidscope/internal/global"
	"msgidscope/internal/logctx"
	"msgidscope/internal/probe"
	"os"
	"strings"
	"time"
)

// One id to decode with the producer version it was written by
type decodeInput struct {
	ID              string
	ProducerVersion string
}

type decodeOptions struct {
	ProducerVersion string
	Format          string
	Location        *time.Location
	MatchLocal      bool
}

func DecodeMode(ctx context.Context, cliOpts *global.CommandSet, commandname string, args []string) {
	var configPath string
	var inputPath string
	var producerVersion string
	var format string
	var timeZone string
	var matchLocal bool

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	SetOutputFormat(commandFlags, &format)
	commandFlags.StringVar(&inputPath, "f", "", "Read ids from file, one per line ('-' for stdin)")
	commandFlags.StringVar(&inputPath, "file", "", "Read ids from file, one per line ('-' for stdin)")
	commandFlags.StringVar(&producerVersion, "V", global.VersionAuto, "Producer protocol version that wrote the ids (like V5_1_0, or auto)")
	commandFlags.StringVar(&producerVersion, "producer-version", global.VersionAuto, "Producer protocol version that wrote the ids (like V5_1_0, or auto)")
	commandFlags.StringVar(&timeZone, "tz", "", "IANA time zone the legacy producers ran in (overrides config)")
	commandFlags.BoolVar(&matchLocal, "local", false, "Report which local interface owns each decoded address")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, cliOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])
	applyVerbosity(ctx)

	ctx = logctx.AppendCtxTag(ctx, global.NSDecode)

	cfg, loaded, err := loadRuntimeConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := decodeOptions{
		ProducerVersion: producerVersion,
		Location:        cfg.Location,
		MatchLocal:      matchLocal,
	}
	opts.Format, err = resolveFormat(format, cfg, loaded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if timeZone != "" {
		opts.Location, err = time.LoadLocation(timeZone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid time zone '%s': %v\n", timeZone, err)
			os.Exit(1)
		}
	}

	inputs, err := collectInputs(commandFlags.Args(), inputPath, producerVersion, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no ids given (pass them as arguments or with --file)\n")
		os.Exit(1)
	}

	failed, err := runDecode(ctx, inputs, opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(2)
	}
}

// Gathers ids from arguments and the optional input file (or stdin for "-").
// File lines are "id [version]", blank lines and '#' comments are skipped.
func collectInputs(args []string, inputPath string, producerVersion string, stdin io.Reader) (inputs []decodeInput, err error) {
	for _, arg := range args {
		for _, id := range strings.Split(arg, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			inputs = append(inputs, decodeInput{ID: id, ProducerVersion: producerVersion})
		}
	}

	if inputPath == "" {
		return
	}

	var reader io.Reader
	if inputPath == "-" {
		reader = stdin
	} else {
		var file *os.File
		file, err = os.Open(inputPath)
		if err != nil {
			err = fmt.Errorf("failed to open id file: %v", err)
			return
		}
		defer file.Close()
		reader = file
	}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) > 2 {
			err = fmt.Errorf("line %d: expected 'id [version]', got %d fields", lineNumber, len(parts))
			return
		}

		input := decodeInput{ID: parts[0], ProducerVersion: producerVersion}
		if len(parts) == 2 {
			input.ProducerVersion = parts[1]
		}
		inputs = append(inputs, input)
	}
	err = scanner.Err()
	if err != nil {
		err = fmt.Errorf("failed reading ids: %v", err)
		return
	}
	return
}

// Decodes every input and writes the results, returning how many ids could not be decoded
func runDecode(ctx context.Context, inputs []decodeInput, opts decodeOptions, out io.Writer) (failed int, err error) {
	decoder := daemon.NewDecoder(opts.Location)

	records := make([]decodeRecord, 0, len(inputs))
	for _, input := range inputs {
		record := decodeRecord{ID: input.ID}

		fields, decodeErr := daemon.Decode(decoder, input.ID, input.ProducerVersion)
		if decodeErr != nil {
			logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
				"failed decoding id %q: %v\n", input.ID, decodeErr)
			record.Error = decodeErr.Error()
			records = append(records, record)
			failed++
			continue
		}
		record.Fields = &fields

		if opts.MatchLocal {
			ifaceName, found := probe.MatchLocal(fields.Address)
			if found {
				record.LocalInterface = ifaceName
			}
		}

		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"decoded id %s as %s layout\n", input.ID, fields.Layout)
		records = append(records, record)
	}

	err = writeDecodeRecords(out, opts.Format, records)
	return
}
