package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"icsshift/internal/ics"
	appLog "icsshift/internal/log"
	"icsshift/internal/model"
	"icsshift/internal/shift"
	"icsshift/internal/source"
)

// Fatal error classes. Output is never written when Run returns one of them.
var (
	ErrInput  = errors.New("cannot read input")
	ErrOutput = errors.New("cannot write output")
)

// Options is everything one run needs. Nothing is read from globals.
type Options struct {
	Input  string // path, URL or "-"
	Output string // path or "-"
	Force  bool   // allow replacing an existing output file

	Spec shift.Spec

	// Verbosity is the -v count: 1 reports counts, 2 per-event detail,
	// 3 every tokenized line.
	Verbosity int

	// Verify re-reads the output before it is written.
	Verify bool

	// LineEnding overrides the input's terminator when non-empty.
	LineEnding string

	Loader *source.Loader
	Stdout io.Writer
}

// Result is the outcome of a run that produced output.
type Result struct {
	Events   int
	Shifted  int
	Failed   int
	Warnings int
}

// Partial reports whether some events were left unshifted.
func (r Result) Partial() bool {
	return r.Failed > 0
}

// Run loads the input, shifts its events and writes the result.
func Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	if err := opts.Spec.Validate(); err != nil {
		return res, err
	}
	if err := source.CheckWritable(opts.Output, opts.Force); err != nil {
		return res, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	loader := opts.Loader
	if loader == nil {
		loader = source.NewLoader(0)
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	data, err := loader.Load(ctx, opts.Input)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrInput, err)
	}

	doc, warnings, err := ics.Read(bytes.NewReader(data))
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrInput, err)
	}
	res.Warnings = len(warnings)
	for _, w := range warnings {
		appLog.Warn("dropped input line", "line", w.Line, "reason", w.Reason, "text", w.Text)
	}
	if opts.Verbosity > 2 {
		traceRecords(doc)
	}

	shifted, rep := shift.Document(doc, opts.Spec)
	res.Events = rep.Events
	res.Shifted = len(rep.Shifted)
	res.Failed = len(rep.Failures)

	appLog.Info("found events", "events", rep.Events, "records", len(doc.Records), "spec", opts.Spec.String())

	for _, f := range rep.Failures {
		appLog.Warn("event left unshifted", "record", f.Index, "summary", f.Summary, "err", f.Err.Error())
		if opts.Verbosity > 1 {
			if ev, ok := doc.Records[f.Index].(model.Event); ok {
				appLog.Debug("unshifted event content", "lines", strings.Join(ev.Lines(), " | "))
			}
		}
	}
	for _, s := range rep.Shifted {
		if opts.Verbosity > 1 {
			appLog.Debug("event shifted", "record", s.Index, "summary", s.Summary, "delta", s.Delta.String())
		}
		if ev, ok := shifted.Records[s.Index].(model.Event); ok {
			for _, note := range shift.RecurrenceNotes(ev) {
				appLog.Warn("recurring event shifted partially", "record", s.Index, "summary", s.Summary, "note", note)
			}
		}
	}

	if opts.LineEnding != "" {
		shifted.LineEnding = opts.LineEnding
	}
	out := ics.Marshal(shifted)

	if opts.Verify {
		if err := ics.Verify(out, rep.Events); err != nil {
			return res, fmt.Errorf("%w: %w", ErrOutput, err)
		}
		appLog.Info("output verified", "events", rep.Events)
	}

	if err := source.Store(opts.Output, out, stdout); err != nil {
		return res, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	appLog.Info("shift complete", "shifted", res.Shifted, "failed", res.Failed, "warnings", res.Warnings, "output", opts.Output)
	return res, nil
}

func traceRecords(doc model.Document) {
	for i, rec := range doc.Records {
		kind := "generic"
		if _, ok := rec.(model.Event); ok {
			kind = "event"
		}
		appLog.Debug("record", "index", i, "kind", kind, "lines", len(rec.Lines()))
		for _, l := range rec.Lines() {
			appLog.Debug("  line", "index", i, "text", l)
		}
	}
}
