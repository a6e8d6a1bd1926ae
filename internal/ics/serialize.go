package ics

import (
	"bufio"
	"bytes"
	"io"

	"icsshift/internal/model"
)

// Write emits every record's lines in order, each followed by the document's
// line terminator.
func Write(w io.Writer, doc model.Document) error {
	bw := bufio.NewWriter(w)
	eol := doc.Terminator()

	for _, rec := range doc.Records {
		var lines []string
		switch r := rec.(type) {
		case model.GenericRecord:
			lines = r.Lines()
		case model.Event:
			lines = r.Lines()
		default:
			continue
		}
		for _, l := range lines {
			if _, err := bw.WriteString(l); err != nil {
				return err
			}
			if _, err := bw.WriteString(eol); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Marshal returns the serialized document.
func Marshal(doc model.Document) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail.
	_ = Write(&buf, doc)
	return buf.Bytes()
}
