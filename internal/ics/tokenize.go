package ics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"icsshift/internal/model"
)

// Marker lines delimiting an event.
const (
	BeginEvent = "BEGIN:VEVENT"
	EndEvent   = "END:VEVENT"
)

// Warning describes an input line that was dropped while tokenizing.
type Warning struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s: %q", w.Line, w.Reason, w.Text)
}

const (
	reasonNoColon      = "line not in key:value format"
	reasonOrphanFolded = "continuation line without a preceding property"
)

// Read reads all lines from r and tokenizes them. The first line terminator
// found becomes the document's LineEnding.
func Read(r io.Reader) (model.Document, []Warning, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		lines   []string
		ending  string
		readErr error
	)
	for {
		line, err := br.ReadString('\n')
		if ending == "" && strings.HasSuffix(line, "\n") {
			ending = "\n"
			if strings.HasSuffix(line, "\r\n") {
				ending = "\r\n"
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}
	if readErr != nil {
		return model.Document{}, nil, readErr
	}

	doc, warnings := Tokenize(lines)
	doc.LineEnding = ending
	return doc, warnings, nil
}

// Tokenize splits lines into generic records and events. Lines between
// BEGIN:VEVENT and END:VEVENT (markers included) form one Event; everything
// else is collected into GenericRecords in order. A BEGIN without a matching
// END is kept as generic data.
func Tokenize(lines []string) (model.Document, []Warning) {
	t := tokenizer{
		doc: model.Document{Records: make([]model.Record, 0)},
	}

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r\n")

		switch {
		case !t.inside && line == BeginEvent:
			t.flushGeneric()
			t.inside = true
			t.add(i+1, line)

		case t.inside && line == EndEvent:
			t.add(i+1, line)
			t.doc.Records = append(t.doc.Records, model.NewEvent(t.buf))
			t.buf = nil
			t.inside = false

		default:
			t.add(i+1, line)
		}
	}
	t.flushGeneric()

	return t.doc, t.warnings
}

type tokenizer struct {
	doc      model.Document
	warnings []Warning
	buf      []model.Pair
	inside   bool
}

func (t *tokenizer) add(lineNo int, line string) {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		if len(t.buf) == 0 {
			t.warn(lineNo, line, reasonOrphanFolded)
			return
		}
		last := &t.buf[len(t.buf)-1]
		last.Folded = append(last.Folded, line)
		return
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		t.warn(lineNo, line, reasonNoColon)
		return
	}
	t.buf = append(t.buf, model.Pair{Key: key, Value: value})
}

func (t *tokenizer) warn(lineNo int, line, reason string) {
	t.warnings = append(t.warnings, Warning{Line: lineNo, Text: line, Reason: reason})
}

func (t *tokenizer) flushGeneric() {
	if len(t.buf) > 0 {
		t.doc.Records = append(t.doc.Records, model.GenericRecord{Pairs: t.buf})
	}
	t.buf = nil
}
