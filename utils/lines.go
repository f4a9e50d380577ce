package utils

import (
	"bufio"
	"io"
)

// LineSource is a single-pass sequence of text lines.
type LineSource interface {
	Next() (string, bool)
}

type sliceLines struct {
	lines []string
	pos   int
}

// SliceLines iterates over an in-memory slice.
func SliceLines(lines []string) LineSource {
	return &sliceLines{lines: lines}
}

func (s *sliceLines) Next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

// ScannerLines reads newline-separated lines from a reader.
type ScannerLines struct {
	sc *bufio.Scanner
}

// ScanLines wraps r. Check Err after the source is exhausted.
func ScanLines(r io.Reader) *ScannerLines {
	return &ScannerLines{sc: bufio.NewScanner(r)}
}

func (s *ScannerLines) Next() (string, bool) {
	if !s.sc.Scan() {
		return "", false
	}
	return s.sc.Text(), true
}

// Err returns the first non-EOF read error.
func (s *ScannerLines) Err() error {
	return s.sc.Err()
}
