package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"icsshift/internal/config"
	appLog "icsshift/internal/log"
	"icsshift/internal/runner"
	"icsshift/internal/source"
)

const version = "0.2.0"

// Exit codes.
const (
	exitOK      = 0
	exitFatal   = 1
	exitUsage   = 2
	exitPartial = 3
)

// flagConfig holds CLI flag values before they are merged into config.
type flagConfig struct {
	configPath string
	saveConfig string
	output     string
	delta      string
	anchor     string
	verbose    int
	force      bool
	verify     bool
	version    bool
	input      string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	appLog.Sync()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("icsshift", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := defineFlags(fs, stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.version {
		fmt.Fprintln(stdout, "icsshift", version)
		return exitOK
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "icsshift: exactly one input path, URL or - is required")
		fs.Usage()
		return exitUsage
	}
	flags.input = fs.Arg(0)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return exitUsage
	}
	mergeFlags(fs, flags, conf)
	appLog.SetLevel(appLog.LevelForVerbosity(conf.Verbosity))

	spec, err := conf.ShiftSpec()
	if err != nil {
		appLog.Error("invalid shift", err)
		return exitUsage
	}

	if flags.saveConfig != "" {
		if err := conf.Save(flags.saveConfig); err != nil {
			appLog.Error("failed to save config", err, "config_path", flags.saveConfig)
			return exitFatal
		}
		appLog.Info("config saved", "config_path", flags.saveConfig)
	}

	appLog.Info("effective config",
		"input", flags.input,
		"output", flags.output,
		"spec", spec.String(),
		"verbosity", conf.Verbosity,
		"verify", conf.Verify,
		"line_ending", conf.LineEnding,
	)

	res, err := runner.Run(ctx, runner.Options{
		Input:      flags.input,
		Output:     flags.output,
		Force:      flags.force,
		Spec:       spec,
		Verbosity:  conf.Verbosity,
		Verify:     conf.Verify,
		LineEnding: conf.Terminator(),
		Loader:     source.NewLoader(conf.FetchTimeout).WithStdin(stdin),
		Stdout:     stdout,
	})
	if err != nil {
		appLog.Error("shift failed", err, "input", flags.input, "output", flags.output)
		if errors.Is(err, source.ErrExists) {
			fmt.Fprintln(stderr, "icsshift: output exists; use --force to overwrite")
		}
		return exitFatal
	}
	if res.Partial() {
		appLog.Warn("some events were not shifted", "failed", res.Failed, "events", res.Events)
		return exitPartial
	}
	return exitOK
}

func defineFlags(fs *flag.FlagSet, stderr io.Writer) *flagConfig {
	var cfg flagConfig

	fs.StringVarP(&cfg.configPath, "config", "c", "", "Path to YAML config file")
	fs.StringVar(&cfg.saveConfig, "save-config", "", "Write the effective config to this path")
	fs.StringVarP(&cfg.output, "output", "o", source.Stdio, "Output path (- for stdout)")
	fs.StringVarP(&cfg.delta, "delta", "d", "", "Shift by a duration (-90m) or whole hours (-1)")
	fs.StringVarP(&cfg.anchor, "anchor", "a", "", "Move events to this hour; negative searches earlier (-8)")
	fs.CountVarP(&cfg.verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.force, "force", false, "Overwrite an existing output file")
	fs.BoolVar(&cfg.verify, "verify", false, "Re-read the output with an iCalendar parser before writing")
	fs.BoolVarP(&cfg.version, "version", "V", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: icsshift [flags] <input.ics|URL|->")
		fs.PrintDefaults()
	}
	return &cfg
}

// mergeFlags applies flags over file config. Giving either --delta or
// --anchor replaces both values from the file.
func mergeFlags(fs *flag.FlagSet, flags *flagConfig, conf *config.Config) {
	if fs.Changed("delta") || fs.Changed("anchor") {
		conf.Delta = flags.delta
		conf.Anchor = flags.anchor
	}
	if fs.Changed("verbose") {
		conf.Verbosity = flags.verbose
	}
	if fs.Changed("verify") {
		conf.Verify = flags.verify
	}
}
