package importer

// stream.go - lazy, single-pass CSV row stream

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutcomeKind tags the result of processing one CSV line.
type OutcomeKind int

const (
	// Accepted means the line decoded and validated into a Row.
	Accepted OutcomeKind = iota
	// Skipped means the line was consumed but produced no row.
	Skipped
	// EndOfStream means the file is exhausted.
	EndOfStream
)

// Outcome is the result of one stream read. Exactly one post-header CSV line
// produces exactly one Accepted or Skipped outcome. For Skipped outcomes,
// Err carries the underlying cause annotated with file and line; it is nil
// for blank lines, which skip silently. An EndOfStream outcome with a
// non-nil Err signals a read failure, which is fatal to the run.
type Outcome struct {
	Kind   OutcomeKind
	Row    Row
	Line   int // 1-based, counted from the first line after the header
	Reason string
	Err    error
}

// Stream yields one Outcome per CSV line without buffering the whole file.
// It is a finite, single-pass, non-restartable sequence.
type Stream struct {
	name    string
	file    *os.File
	scanner *bufio.Scanner

	line          int
	headerSkipped bool
	closed        bool
}

// maxLineBytes bounds a single CSV line; bufio.Scanner's default 64K is
// tight for wide rows with many extra columns.
const maxLineBytes = 1 << 20

// Open opens path for streaming. The header line is consumed and discarded
// on the first read, regardless of content.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path) //nolint:gosec // path is the user-requested import file
	if err != nil {
		return nil, fmt.Errorf("cannot open CSV file: %w", err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Stream{
		name:    filepath.Base(path),
		file:    f,
		scanner: scanner,
	}, nil
}

// Name returns the base name of the underlying file, used in error messages.
func (s *Stream) Name() string {
	return s.name
}

// Next advances the stream by exactly one line and returns its outcome.
func (s *Stream) Next() Outcome {
	if s.closed {
		return Outcome{Kind: EndOfStream}
	}

	if !s.headerSkipped {
		s.headerSkipped = true
		if !s.scanner.Scan() {
			// Empty file: no header line means no data either.
			return Outcome{Kind: EndOfStream, Err: s.scanner.Err()}
		}
	}

	if !s.scanner.Scan() {
		return Outcome{Kind: EndOfStream, Err: s.scanner.Err()}
	}
	s.line++

	raw := s.scanner.Text()
	if strings.TrimSpace(raw) == "" {
		return Outcome{Kind: Skipped, Line: s.line, Reason: "blank line"}
	}

	fields, err := s.decode(raw)
	if err != nil {
		return Outcome{Kind: Skipped, Line: s.line, Reason: "malformed CSV", Err: s.lineError(err)}
	}

	row, err := Validate(fields)
	if err != nil {
		return Outcome{Kind: Skipped, Line: s.line, Reason: err.Error(), Err: s.lineError(err)}
	}

	return Outcome{Kind: Accepted, Row: row, Line: s.line}
}

// decode parses a single physical line as one CSV record.
func (s *Stream) decode(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}

func (s *Stream) lineError(err error) error {
	return fmt.Errorf("%s:%d: %w", s.name, s.line, err)
}

// Close releases the underlying file handle. It is idempotent and safe to
// call on every exit path.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
